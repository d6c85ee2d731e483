// Package httpfetch retrieves account avatars over HTTP from the account's
// own server.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ldenis/synctray/internal/domain"
	"github.com/ldenis/synctray/internal/ports"
)

const (
	avatarPathFormat = "/index.php/avatar/%s/128"
	maxAvatarBytes   = 1 << 20
)

type Fetcher struct {
	client *http.Client
}

var _ ports.AvatarFetcher = (*Fetcher)(nil)

func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// Fetch returns the avatar bytes for account, or nil when the server has
// none. A non-2xx response is "no avatar", not an error; only transport
// failures surface, and the caller degrades to a placeholder either way.
func (f *Fetcher) Fetch(ctx context.Context, account domain.Account) ([]byte, error) {
	endpoint := strings.TrimSuffix(account.ServerURL, "/") +
		fmt.Sprintf(avatarPathFormat, url.PathEscape(account.LoginName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build avatar request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return nil, fmt.Errorf("read avatar body: %w", err)
	}
	return data, nil
}
