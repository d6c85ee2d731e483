// Package ocs pages server-recorded activities through the OCS activity
// endpoint and normalizes them into feed records.
package ocs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ldenis/synctray/internal/domain"
	"github.com/ldenis/synctray/internal/ports"
)

const (
	activityPath    = "/ocs/v2.php/apps/activity/api/v2/activity"
	maxResponseSize = 4 << 20
)

type Client struct {
	client *http.Client
}

var _ ports.ActivityAPI = (*Client)(nil)

func NewClient(client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{client: client}
}

// FetchActivities returns one page of activities after the `since` cursor
// plus the cursor for the next page. An empty page returns the cursor
// unchanged. HTTP 304 means the feed is exhausted.
func (c *Client) FetchActivities(ctx context.Context, account domain.Account, since int64, limit int) ([]domain.ActivityRecord, int64, error) {
	endpoint := strings.TrimSuffix(account.ServerURL, "/") + activityPath +
		"?format=json&since=" + strconv.FormatInt(since, 10) +
		"&limit=" + strconv.Itoa(limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, since, fmt.Errorf("build activity request: %w", err)
	}
	req.Header.Set("OCS-APIRequest", "true")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, since, fmt.Errorf("fetch activities: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return nil, since, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, since, fmt.Errorf("fetch activities: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, since, fmt.Errorf("read activity body: %w", err)
	}

	records, next := parsePage(body, account, since)
	return records, next, nil
}

func parsePage(body []byte, account domain.Account, since int64) ([]domain.ActivityRecord, int64) {
	var records []domain.ActivityRecord
	next := since

	gjson.GetBytes(body, "ocs.data").ForEach(func(_, entry gjson.Result) bool {
		record := domain.ActivityRecord{
			Kind:        domain.KindServerActivity,
			Status:      domain.StatusNone,
			Subject:     entry.Get("subject").String(),
			Message:     entry.Get("message").String(),
			Link:        entry.Get("link").String(),
			AccountName: account.PreferredName(),
			File:        entry.Get("object_name").String(),
		}
		if ts, err := time.Parse(time.RFC3339, entry.Get("datetime").String()); err == nil {
			record.Timestamp = ts
		}
		if id := entry.Get("activity_id").Int(); id > next {
			next = id
		}

		records = append(records, record)
		return true
	})

	return records, next
}
