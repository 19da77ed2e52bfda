package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/locadora/rental-system/internal/core/ports"
)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Get(ctx, ports.KeyUsers); !errors.Is(err, ports.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := m.Set(ctx, ports.KeyUsers, []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := m.Get(ctx, ports.KeyUsers)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("unexpected value: %q", got)
	}

	if err := m.Delete(ctx, ports.KeyUsers); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Get(ctx, ports.KeyUsers); !errors.Is(err, ports.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}

	// Deleting an absent key is a no-op.
	if err := m.Delete(ctx, "ghost"); err != nil {
		t.Fatalf("delete absent key: %v", err)
	}
}

func TestMemory_CopiesAreDefensive(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	in := []byte("original")
	if err := m.Set(ctx, "k", in); err != nil {
		t.Fatalf("set: %v", err)
	}
	in[0] = 'X'

	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "original" {
		t.Fatalf("store aliased the caller's slice: %q", got)
	}

	got[0] = 'Y'
	again, _ := m.Get(ctx, "k")
	if string(again) != "original" {
		t.Fatalf("returned slice aliases the store: %q", again)
	}
}
