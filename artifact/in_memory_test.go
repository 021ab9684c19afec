package artifact

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/agentpair/core"
)

// Interface compliance (compile-time assertions)
var (
	_ core.ArtifactStore = (*InMemoryStore)(nil)
	_ core.ArtifactStore = (*FileStore)(nil)
)

func TestInMemoryArtifactStore_SaveGetIsolation(t *testing.T) {
	svc := NewInMemoryStore()
	data := []byte("hello")
	if err := svc.Save("pkg", "a.py", data); err != nil {
		t.Fatalf("save: %v", err)
	}
	// mutate original slice
	data[0] = 'H'
	out, err := svc.Get("pkg", "a.py")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(out) != "hello" {
		t.Fatalf("expected 'hello', got %q", string(out))
	}
	// mutate returned slice
	out[0] = 'x'
	out2, _ := svc.Get("pkg", "a.py")
	if string(out2) != "hello" {
		t.Fatalf("expected isolation, got %q", string(out2))
	}
}

func TestInMemoryArtifactStore_ListAndDelete(t *testing.T) {
	svc := NewInMemoryStore()
	if err := svc.Save("pkg", "b.py", []byte("2")); err != nil {
		t.Fatal(err)
	}
	if err := svc.Save("pkg", "a.py", []byte("1")); err != nil {
		t.Fatal(err)
	}
	names, err := svc.List("pkg")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "a.py" {
		t.Fatalf("expected sorted [a.py b.py], got %v", names)
	}
	if err := svc.Delete("pkg", "a.py"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get("pkg", "a.py"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for deleted artifact, got %v", err)
	}
	if err := svc.Delete("other", "a.py"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown scope, got %v", err)
	}
}

func TestInMemoryArtifactStore_Concurrency(t *testing.T) {
	svc := NewInMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Save("pkg", fmt.Sprintf("f%d.py", i%10), []byte("data")); err != nil {
				t.Errorf("save err: %v", err)
			}
			_, _ = svc.List("pkg")
		}()
	}
	wg.Wait()
	names, err := svc.List("pkg")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 10 {
		t.Fatalf("expected 10 artifacts, got %d", len(names))
	}
}
