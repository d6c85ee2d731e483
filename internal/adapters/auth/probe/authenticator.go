// Package probe implements the auth collaborator for servers reachable
// without an interactive flow: sign-in probes the server's status endpoint
// and reads its capabilities, sign-out drops the connection state. The
// interactive OAuth flow lives outside this module; desktop shells replace
// this adapter with their own.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/ldenis/synctray/internal/domain"
	"github.com/ldenis/synctray/internal/ports"
)

const (
	statusPath       = "/status.php"
	capabilitiesPath = "/ocs/v1.php/cloud/capabilities?format=json"
	maxResponseSize  = 1 << 20
)

type accountState struct {
	connectivity  domain.Connectivity
	hasTalk       bool
	hasActivities bool
}

// Authenticator keeps per-account connection state. Like the session core
// it is confined to one control goroutine and holds no locks.
type Authenticator struct {
	dir    ports.AccountDirectory
	client *http.Client
	log    zerolog.Logger
	state  map[domain.AccountID]*accountState
}

var _ ports.Authenticator = (*Authenticator)(nil)

func NewAuthenticator(dir ports.AccountDirectory, client *http.Client, log zerolog.Logger) *Authenticator {
	if client == nil {
		client = http.DefaultClient
	}
	return &Authenticator{
		dir:    dir,
		client: client,
		log:    log,
		state:  map[domain.AccountID]*accountState{},
	}
}

func (a *Authenticator) SignIn(ctx context.Context, id domain.AccountID) error {
	account, err := a.lookup(ctx, id)
	if err != nil {
		return err
	}

	st := a.stateFor(id)
	st.connectivity = a.probeStatus(ctx, account)
	if st.connectivity == domain.ConnectivityConnected {
		st.hasTalk, st.hasActivities = a.probeCapabilities(ctx, account)
	}

	a.log.Info().
		Str("account", string(id)).
		Str("connectivity", string(st.connectivity)).
		Msg("sign in probed")
	return nil
}

func (a *Authenticator) SignOut(_ context.Context, id domain.AccountID) error {
	st := a.stateFor(id)
	st.connectivity = domain.ConnectivityDisconnected
	st.hasTalk = false
	st.hasActivities = false
	return nil
}

func (a *Authenticator) ClearRejectedCertificates(id domain.AccountID) {
	// The probe transport never pins certificates; tracked only so the
	// login sequence matches what a certificate-aware shell would do.
	a.log.Debug().Str("account", string(id)).Msg("rejected certificates cleared")
}

func (a *Authenticator) Connectivity(id domain.AccountID) domain.Connectivity {
	if st, ok := a.state[id]; ok {
		return st.connectivity
	}
	return domain.ConnectivityDisconnected
}

func (a *Authenticator) HasTalk(id domain.AccountID) bool {
	if st, ok := a.state[id]; ok {
		return st.hasTalk
	}
	return false
}

func (a *Authenticator) HasActivities(id domain.AccountID) bool {
	if st, ok := a.state[id]; ok {
		return st.hasActivities
	}
	return false
}

func (a *Authenticator) stateFor(id domain.AccountID) *accountState {
	st, ok := a.state[id]
	if !ok {
		st = &accountState{connectivity: domain.ConnectivityDisconnected}
		a.state[id] = st
	}
	return st
}

func (a *Authenticator) lookup(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	accounts, err := a.dir.List(ctx)
	if err != nil {
		return domain.Account{}, fmt.Errorf("list accounts: %w", err)
	}
	for _, account := range accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return domain.Account{}, fmt.Errorf("sign in %q: %w", id, domain.ErrAccountNotFound)
}

func (a *Authenticator) probeStatus(ctx context.Context, account domain.Account) domain.Connectivity {
	body, ok := a.get(ctx, account.ServerURL, statusPath)
	if !ok {
		return domain.ConnectivityNetworkError
	}
	if gjson.GetBytes(body, "maintenance").Bool() {
		return domain.ConnectivityMaintenance
	}
	return domain.ConnectivityConnected
}

func (a *Authenticator) probeCapabilities(ctx context.Context, account domain.Account) (hasTalk, hasActivities bool) {
	body, ok := a.get(ctx, account.ServerURL, capabilitiesPath)
	if !ok {
		return false, false
	}
	caps := gjson.GetBytes(body, "ocs.data.capabilities")
	return caps.Get("spreed").Exists(), caps.Get("activity").Exists()
}

func (a *Authenticator) get(ctx context.Context, serverURL, path string) ([]byte, bool) {
	endpoint := strings.TrimSuffix(serverURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("OCS-APIRequest", "true")

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Debug().Err(err).Str("endpoint", endpoint).Msg("probe failed")
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, false
	}
	return body, true
}
