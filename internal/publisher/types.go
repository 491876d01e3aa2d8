// Package publisher routes due items to the external create-operations that
// perform the actual content writes (events, sermons, email campaigns).
package publisher

import (
	"context"
	"fmt"

	"parishpress/internal/content"
)

// Func performs the remote write for one item. Implementations should be
// idempotent on the backend side; the scheduler only calls each due
// occurrence once.
type Func func(ctx context.Context, it content.Item) error

// ErrNoPublisher marks content types without a registered publisher
// (e.g. "post" drafts that have no backend resource yet).
type ErrNoPublisher struct {
	Type content.Type
}

func (e *ErrNoPublisher) Error() string {
	return fmt.Sprintf("no publisher registered for content type %q", string(e.Type))
}

// Registry maps content types to publishers.
// It is populated once at wiring time and read-only afterwards.
type Registry struct {
	funcs map[content.Type]Func
}

func NewRegistry() *Registry {
	return &Registry{funcs: map[content.Type]Func{}}
}

func (r *Registry) Register(t content.Type, fn Func) {
	if fn == nil {
		return
	}
	r.funcs[t] = fn
}

// Publish dispatches the item to its publisher.
func (r *Registry) Publish(ctx context.Context, it content.Item) error {
	fn, ok := r.funcs[it.Type]
	if !ok {
		return &ErrNoPublisher{Type: it.Type}
	}
	return fn(ctx, it)
}
