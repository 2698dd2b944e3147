package reverse

import (
	"fmt"
	"sync"
	"testing"
)

func TestIndexAddAndDependents(t *testing.T) {
	idx := NewIndex()
	target := Ref{Name: "b", Version: "1.5.0"}

	idx.Add(target, Ref{Name: "a", Version: "1.0.0"})
	idx.Add(target, Ref{Name: "c", Version: "2.0.0"})
	idx.Add(target, Ref{Name: "a", Version: "1.0.0"}) // duplicate collapses

	deps := idx.Dependents("b", "1.5.0")
	if len(deps) != 2 {
		t.Fatalf("got %d dependents, want 2", len(deps))
	}
	if deps[0].Name != "a" || deps[1].Name != "c" {
		t.Errorf("dependents not sorted: %v", deps)
	}

	if got := idx.Dependents("b", "9.9.9"); got != nil {
		t.Errorf("Dependents of unknown version = %v, want nil", got)
	}
	if got := idx.Dependents("zzz", "1.0.0"); got != nil {
		t.Errorf("Dependents of unknown package = %v, want nil", got)
	}

	if !idx.HasDependents("b") {
		t.Error("HasDependents(b) = false")
	}
	if idx.HasDependents("a") {
		t.Error("HasDependents(a) = true, want false")
	}
	if got := idx.Edges(); got != 2 {
		t.Errorf("Edges() = %d, want 2", got)
	}
}

func TestIndexConcurrentInsert(t *testing.T) {
	idx := NewIndex()

	const writers = 16
	const perWriter = 200

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				// Spread targets across shards; every writer also hits a
				// shared hot key to exercise contention.
				idx.Add(Ref{Name: fmt.Sprintf("pkg-%d", i%37), Version: "1.0.0"},
					Ref{Name: fmt.Sprintf("src-%d-%d", w, i), Version: "0.1.0"})
				idx.Add(Ref{Name: "hot", Version: "2.0.0"},
					Ref{Name: fmt.Sprintf("hot-src-%d", w), Version: "0.1.0"})
			}
		}()
	}
	wg.Wait()

	if got := len(idx.Dependents("hot", "2.0.0")); got != writers {
		t.Errorf("hot key has %d dependents, want %d", got, writers)
	}
	want := writers*perWriter + writers
	if got := idx.Edges(); got != want {
		t.Errorf("Edges() = %d, want %d", got, want)
	}
}

func TestSnapshotDeterministic(t *testing.T) {
	idx := NewIndex()
	idx.Add(Ref{Name: "b", Version: "1.0.0"}, Ref{Name: "z", Version: "1.0.0"})
	idx.Add(Ref{Name: "b", Version: "1.0.0"}, Ref{Name: "a", Version: "1.0.0"})

	snap := idx.Snapshot()
	refs := snap["b"]["1.0.0"]
	if len(refs) != 2 || refs[0].Name != "a" || refs[1].Name != "z" {
		t.Errorf("snapshot dependents not sorted: %v", refs)
	}
}
