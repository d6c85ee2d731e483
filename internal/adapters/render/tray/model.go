package tray

import (
	"context"

	"github.com/ldenis/synctray/internal/application"
	"github.com/ldenis/synctray/internal/notify"
)

// Model maintains a row cache over the registry and patches it from the
// typed change notifications instead of re-reading the whole collection:
// inserts splice rows in, removals splice them out, changed and selection
// payloads re-resolve only the touched rows.
type Model struct {
	registry *application.Registry
	rows     []application.Role
	selected int
}

func NewModel(registry *application.Registry) *Model {
	m := &Model{registry: registry, selected: -1}
	registry.Subscribe(m.apply)
	m.reload()
	return m
}

func (m *Model) apply(p notify.Payload) {
	ctx := context.Background()

	switch ev := p.(type) {
	case notify.SessionsInserted:
		for i := ev.From; i <= ev.To; i++ {
			m.rows = append(m.rows, application.Role{})
			copy(m.rows[i+1:], m.rows[i:])
			m.rows[i] = m.registry.Role(ctx, i)
		}
		m.renumberFrom(ev.To + 1)
	case notify.SessionsRemoved:
		m.rows = append(m.rows[:ev.From], m.rows[ev.To+1:]...)
		m.renumberFrom(ev.From)
	case notify.SessionsChanged:
		for i := ev.From; i <= ev.To && i < len(m.rows); i++ {
			m.rows[i] = m.registry.Role(ctx, i)
		}
	case notify.SelectionChanged:
		if m.selected >= 0 && m.selected < len(m.rows) {
			m.rows[m.selected] = m.registry.Role(ctx, m.selected)
		}
		if ev.Index >= 0 && ev.Index < len(m.rows) {
			m.rows[ev.Index] = m.registry.Role(ctx, ev.Index)
		}
		m.selected = ev.Index
	}
}

// renumberFrom refreshes rows whose index identity shifted.
func (m *Model) renumberFrom(start int) {
	ctx := context.Background()
	for i := start; i < len(m.rows); i++ {
		m.rows[i] = m.registry.Role(ctx, i)
	}
	m.selected = m.registry.CurrentIndex()
}

func (m *Model) reload() {
	ctx := context.Background()
	m.rows = m.rows[:0]
	for i := 0; i < m.registry.Count(); i++ {
		m.rows = append(m.rows, m.registry.Role(ctx, i))
	}
	m.selected = m.registry.CurrentIndex()
}

func (m *Model) Rows() []application.Role {
	out := make([]application.Role, len(m.rows))
	copy(out, m.rows)
	return out
}

func (m *Model) View() string {
	return RenderAccounts(m.Rows())
}
