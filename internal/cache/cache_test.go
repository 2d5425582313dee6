package cache

import "testing"

func TestInMemoryLookupAndPut(t *testing.T) {
	c := NewInMemory()
	if _, ok := c.Lookup(1); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Put(1, "Thrall")
	name, ok := c.Lookup(1)
	if !ok || name != "Thrall" {
		t.Fatalf("Lookup(1) = %q, %v, want Thrall, true", name, ok)
	}
}

func TestInMemoryLoadSaveAreNoOps(t *testing.T) {
	c := NewInMemory()
	if err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.Put(2, "Jaina")
	if err := c.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
