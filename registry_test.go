package ripples

import (
	"errors"
	"testing"
)

func TestRegistryAttachIsIdempotent(t *testing.T) {
	r := NewRegistry()
	el := NewElement(0, 0, 8, 8)
	h1, err := r.Attach(el, WithResolution(4))
	if err != nil {
		t.Fatal(err)
	}
	h2, err := r.Attach(el, WithResolution(8))
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("second Attach = %d, want existing handle %d", h2, h1)
	}
	fx, ok := r.Get(h1)
	if !ok {
		t.Fatal("Get() missed attached effect")
	}
	if fx.Config().Resolution != 4 {
		t.Errorf("resolution = %d, want options of the first Attach", fx.Config().Resolution)
	}
	if got, ok := r.Lookup(el); !ok || got != h1 {
		t.Errorf("Lookup() = %d, %v, want %d", got, ok, h1)
	}

	other, err := r.Attach(NewElement(0, 0, 8, 8), WithResolution(4))
	if err != nil {
		t.Fatal(err)
	}
	if other == h1 {
		t.Error("distinct surfaces share a handle")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
	r.Destroy(h1)
	r.Destroy(other)
}

func TestRegistryDestroy(t *testing.T) {
	r := NewRegistry()
	el := NewElement(0, 0, 8, 8)
	h, err := r.Attach(el, WithResolution(4))
	if err != nil {
		t.Fatal(err)
	}
	fx, _ := r.Get(h)
	r.Destroy(h)
	if !fx.State().Destroyed {
		t.Error("effect not destroyed")
	}
	if _, ok := r.Get(h); ok {
		t.Error("Get() found destroyed handle")
	}
	if _, ok := r.Lookup(el); ok {
		t.Error("Lookup() found destroyed surface")
	}
	r.Destroy(h)

	h2, err := r.Attach(el, WithResolution(4))
	if err != nil {
		t.Fatal(err)
	}
	if h2 == h {
		t.Error("handle reused after Destroy")
	}
	r.Destroy(h2)
}

func TestRegistryTickAllForgetsDestroyed(t *testing.T) {
	r := NewRegistry()
	live, _ := r.Attach(NewElement(0, 0, 8, 8), WithResolution(4))
	dead, _ := r.Attach(NewElement(0, 0, 8, 8), WithResolution(4))
	fx, _ := r.Get(dead)
	fx.Destroy()

	r.TickAll()
	if r.Len() != 1 {
		t.Fatalf("Len() = %d after TickAll, want 1", r.Len())
	}
	if _, ok := r.Get(live); !ok {
		t.Error("live effect dropped by TickAll")
	}
	r.Destroy(live)
}

func TestRegistryAttachFailure(t *testing.T) {
	r := NewRegistry()
	_, err := r.Attach(NewElement(0, 0, 8, 8), WithDevice(NewCPUDevice(Profile{})))
	var capErr *CapabilityError
	if !errors.As(err, &capErr) {
		t.Fatalf("Attach() = %v, want *CapabilityError", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d after failed Attach, want 0", r.Len())
	}
}
