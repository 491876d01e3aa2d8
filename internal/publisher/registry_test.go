package publisher

import (
	"context"
	"errors"
	"testing"

	"parishpress/internal/content"
)

func TestRegistryDispatch(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	var got content.Type
	reg.Register(content.TypeEvent, func(ctx context.Context, it content.Item) error {
		got = it.Type
		return nil
	})

	err := reg.Publish(context.Background(), content.Item{Type: content.TypeEvent, Title: "x"})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got != content.TypeEvent {
		t.Fatalf("dispatched to wrong publisher: %s", got)
	}
}

func TestRegistryUnregisteredType(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	err := reg.Publish(context.Background(), content.Item{Type: content.TypePost, Title: "x"})
	var np *ErrNoPublisher
	if !errors.As(err, &np) {
		t.Fatalf("expected ErrNoPublisher, got %v", err)
	}
	if np.Type != content.TypePost {
		t.Fatalf("error names %s, want post", np.Type)
	}
}

func TestRegistryPropagatesPublisherError(t *testing.T) {
	t.Parallel()
	reg := NewRegistry()
	want := errors.New("backend down")
	reg.Register(content.TypeSermon, func(ctx context.Context, it content.Item) error {
		return want
	})
	if err := reg.Publish(context.Background(), content.Item{Type: content.TypeSermon}); !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}
