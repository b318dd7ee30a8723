package store

import (
	"fmt"
	"testing"

	"github.com/DevOpsVX/volxo-backend/internal/models"
)

func TestPutGet(t *testing.T) {
	s := NewMemoryStore(4)
	s.Put("a", models.EngineResult{Narrative: "n"})
	res, ok := s.Get("a")
	if !ok {
		t.Fatal("expected hit")
	}
	if res.Narrative != "n" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatal("expected miss")
	}
}

func TestEvictionKeepsNewest(t *testing.T) {
	s := NewMemoryStore(3)
	for i := 0; i < 5; i++ {
		s.Put(fmt.Sprintf("r%d", i), models.EngineResult{})
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", s.Len())
	}
	if _, ok := s.Get("r0"); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if _, ok := s.Get("r4"); !ok {
		t.Fatal("newest entry must survive")
	}
}

func TestPutSameIDNoDuplicate(t *testing.T) {
	s := NewMemoryStore(2)
	s.Put("a", models.EngineResult{Narrative: "1"})
	s.Put("a", models.EngineResult{Narrative: "2"})
	if s.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", s.Len())
	}
	res, _ := s.Get("a")
	if res.Narrative != "2" {
		t.Fatal("expected overwrite")
	}
}
