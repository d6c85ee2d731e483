package domain

import "strings"

type AccountID string

// Account is the identity payload handed out by the account directory.
// Sessions hold it by value; the directory remains the owner of record.
type Account struct {
	ID          AccountID
	LoginName   string
	DisplayName string
	ServerURL   string
}

// PreferredName returns the display name, falling back to the login name
// when the server never reported one (missing login at startup, typically).
func (a Account) PreferredName() string {
	if a.DisplayName == "" {
		return a.LoginName
	}
	return a.DisplayName
}

// ShortServerURL strips a leading https:// or http:// scheme. The strip is
// a first-occurrence substring replace, not a prefix check; callers rely on
// the historical behavior.
func (a Account) ShortServerURL() string {
	url := strings.Replace(a.ServerURL, "https://", "", 1)
	return strings.Replace(url, "http://", "", 1)
}

type Connectivity string

const (
	ConnectivityConnected    Connectivity = "connected"
	ConnectivityDisconnected Connectivity = "disconnected"
	ConnectivityMaintenance  Connectivity = "maintenance"
	ConnectivityNetworkError Connectivity = "network_error"
)
