// Package tray renders the account list and activity feed for terminal
// surfaces. It is this module's stand-in for the desktop rendering layer:
// it consumes the registry's role queries and change notifications, it
// never touches session state directly.
package tray

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ldenis/synctray/internal/application"
	"github.com/ldenis/synctray/internal/domain"
)

// RenderAccounts renders one line per session role.
func RenderAccounts(roles []application.Role) string {
	s := newStyles()

	lines := []string{
		s.title.Render("Accounts"),
		s.header.Render(fmt.Sprintf("configured: %d", len(roles))),
	}

	if len(roles) == 0 {
		lines = append(lines, s.empty.Render("No accounts configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, role := range roles {
		lines = append(lines, renderRole(role, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRole(role application.Role, s styles) string {
	name := s.account.Render(role.Name)
	marker := " "
	if role.IsCurrentUser {
		name = s.current.Render(role.Name)
		marker = s.current.Render(">")
	}

	state := s.offline.Render("offline")
	if role.IsConnected {
		state = s.connected.Render("online")
	}

	return fmt.Sprintf("%s [%d] %s  %s  %s", marker, role.ID, name, s.server.Render(role.Server), state)
}

// RenderFeed renders the activity records of one feed, newest last.
func RenderFeed(records []domain.ActivityRecord) string {
	s := newStyles()

	lines := []string{s.title.Render("Activity")}

	if len(records) == 0 {
		lines = append(lines, s.empty.Render("No activity yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, record := range records {
		lines = append(lines, s.section.Render(renderRecord(record, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRecord(record domain.ActivityRecord, s styles) string {
	parts := make([]string, 0, 3)

	head := record.Subject
	if head == "" {
		head = record.Message
	}
	if isErrorRecord(record) {
		head = s.errorTag.Render("error") + " " + s.subject.Render(head)
	} else {
		head = s.subject.Render(head)
	}
	parts = append(parts, head)

	if record.Subject != "" && record.Message != "" {
		parts = append(parts, s.message.Render(record.Message))
	}

	for _, link := range record.ActionLinks {
		parts = append(parts, s.action.Render(fmt.Sprintf("[%s]", link.Label)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func isErrorRecord(record domain.ActivityRecord) bool {
	if record.Kind == domain.KindSyncResult {
		return true
	}
	if record.Kind != domain.KindSyncFileItem {
		return false
	}
	switch record.Status {
	case domain.StatusNone, domain.StatusSuccess, domain.StatusFileIgnored:
		return false
	}
	return true
}
