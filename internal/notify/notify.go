// Package notify carries typed change events from the session registry to
// its observers (the rendering layer, the image-provider bridge). Dispatch
// is synchronous and in registration order: the registry mutates, then
// notifies, all on the one control goroutine the core is confined to.
package notify

// Every payload needs a type to distinguish what kind of update it is.
type Payload interface {
	Type() string
}

// SessionsInserted reports that sessions [From..To] were appended.
type SessionsInserted struct {
	From int
	To   int
}

func (SessionsInserted) Type() string { return "sessions_inserted" }

// SessionsRemoved reports that sessions [From..To] were removed and that
// any later indices shifted down.
type SessionsRemoved struct {
	From int
	To   int
}

func (SessionsRemoved) Type() string { return "sessions_removed" }

// SessionsChanged reports that derived fields of sessions [From..To] may
// have changed and should be re-read.
type SessionsChanged struct {
	From int
	To   int
}

func (SessionsChanged) Type() string { return "sessions_changed" }

// SelectionChanged reports that the current session moved to Index.
type SelectionChanged struct {
	Index int
}

func (SelectionChanged) Type() string { return "selection_changed" }

// Bus fans payloads out to registered observers. It is not safe for
// concurrent use; it lives on the registry's control goroutine.
type Bus struct {
	observers []func(Payload)
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers an observer. Observers cannot be removed; the
// registry and its observers share one process lifetime.
func (b *Bus) Subscribe(fn func(Payload)) {
	b.observers = append(b.observers, fn)
}

// Publish delivers p to every observer in registration order.
func (b *Bus) Publish(p Payload) {
	for _, fn := range b.observers {
		fn(p)
	}
}
