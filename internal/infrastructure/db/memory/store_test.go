package memory

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type note struct {
	ID        int64
	Slug      string
	Body      string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

var (
	errNoteNotFound = errors.New("note not found")
	errSlugTaken    = errors.New("slug taken")
)

func newNoteStore(opts Options) *Store[note] {
	return NewStore(Schema[note]{
		SetID: func(n *note, id int64) { n.ID = id },
		Stamp: func(n *note, now time.Time, created bool) {
			if created {
				n.CreatedAt = now
				return
			}
			n.UpdatedAt = &now
		},
		Clone: func(n note) note {
			n.Tags = append([]string(nil), n.Tags...)
			return n
		},
		Searchable: func(n note) []string { return []string{n.Slug, n.Body} },
		Unique: []UniqueKey[note]{
			{Field: "slug", Value: func(n note) string { return n.Slug }, Err: errSlugTaken},
		},
		NotFound: errNoteNotFound,
	}, opts)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStore_CreateAssignsMonotonicIDs(t *testing.T) {
	s := newNoteStore(Options{})

	a, err := s.Create(note{Slug: "a"})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, _ := s.Create(note{Slug: "b"})
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", a.ID, b.ID)
	}

	if !s.Delete(b.ID) {
		t.Fatal("delete b returned false")
	}
	c, _ := s.Create(note{Slug: "c"})
	if c.ID != 3 {
		t.Fatalf("expected id 3 after delete, got %d", c.ID)
	}
}

func TestStore_CreateIgnoresCallerID(t *testing.T) {
	s := newNoteStore(Options{})
	n, _ := s.Create(note{ID: 42, Slug: "x"})
	if n.ID != 1 {
		t.Fatalf("expected store-assigned id 1, got %d", n.ID)
	}
}

func TestStore_CreateStampsCreatedAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := newNoteStore(Options{Now: fixedClock(now)})

	n, _ := s.Create(note{Slug: "a"})
	if !n.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, n.CreatedAt)
	}
	if n.UpdatedAt != nil {
		t.Fatalf("expected nil updated_at, got %v", n.UpdatedAt)
	}
}

func TestStore_UniqueConflictOnCreate(t *testing.T) {
	s := newNoteStore(Options{})
	_, _ = s.Create(note{Slug: "dup"})

	if _, err := s.Create(note{Slug: "dup"}); !errors.Is(err, errSlugTaken) {
		t.Fatalf("expected errSlugTaken, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("failed create must not insert, len=%d", s.Len())
	}
	// The failed create must not consume an id.
	n, _ := s.Create(note{Slug: "next"})
	if n.ID != 2 {
		t.Fatalf("expected id 2, got %d", n.ID)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	s := newNoteStore(Options{})
	if _, err := s.Get(7); !errors.Is(err, errNoteNotFound) {
		t.Fatalf("expected errNoteNotFound, got %v", err)
	}
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	s := newNoteStore(Options{})
	created, _ := s.Create(note{Slug: "a", Tags: []string{"x"}})
	created.Tags[0] = "mutated"
	created.Body = "mutated"

	got, _ := s.Get(created.ID)
	if got.Tags[0] != "x" || got.Body != "" {
		t.Fatalf("caller mutation leaked into store: %+v", got)
	}

	listed := s.List(nil, 0, 10)
	listed[0].Tags[0] = "again"
	got, _ = s.Get(created.ID)
	if got.Tags[0] != "x" {
		t.Fatalf("list result aliases store state: %+v", got)
	}
}

func TestStore_ListPaginationAndFilter(t *testing.T) {
	s := newNoteStore(Options{})
	for i := 1; i <= 10; i++ {
		_, _ = s.Create(note{Slug: fmt.Sprintf("n%d", i)})
	}
	even := func(n note) bool { return n.ID%2 == 0 }

	got := s.List(even, 1, 2)
	if len(got) != 2 || got[0].ID != 4 || got[1].ID != 6 {
		t.Fatalf("unexpected page: %+v", got)
	}

	if got := s.List(nil, 8, 5); len(got) != 2 || got[0].ID != 9 {
		t.Fatalf("expected tail of 2 items, got %+v", got)
	}
	if got := s.List(nil, 50, 5); len(got) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(got))
	}
	if got := s.List(nil, -3, 3); len(got) != 3 || got[0].ID != 1 {
		t.Fatalf("negative skip should behave as 0, got %+v", got)
	}
	if s.Count(even) != 5 || s.Count(nil) != 10 {
		t.Fatalf("unexpected counts: %d / %d", s.Count(even), s.Count(nil))
	}
}

func TestStore_LimitClampedToMax(t *testing.T) {
	s := newNoteStore(Options{})
	for i := 0; i < 150; i++ {
		_, _ = s.Create(note{Slug: fmt.Sprintf("n%d", i)})
	}

	atMax := s.List(nil, 0, MaxPageLimit)
	over := s.List(nil, 0, 1000)
	if len(over) != len(atMax) || len(over) != MaxPageLimit {
		t.Fatalf("limit above max must equal max: got %d vs %d", len(over), len(atMax))
	}
	for i := range over {
		if over[i].ID != atMax[i].ID {
			t.Fatalf("page differs at %d", i)
		}
	}

	if got := s.List(nil, 0, 0); len(got) != DefaultPageLimit {
		t.Fatalf("zero limit should use default, got %d", len(got))
	}
}

func TestStore_CustomLimits(t *testing.T) {
	s := newNoteStore(Options{DefaultLimit: 2, MaxLimit: 3})
	for i := 0; i < 5; i++ {
		_, _ = s.Create(note{Slug: fmt.Sprintf("n%d", i)})
	}
	if got := s.List(nil, 0, 0); len(got) != 2 {
		t.Fatalf("expected default 2, got %d", len(got))
	}
	if got := s.List(nil, 0, 9); len(got) != 3 {
		t.Fatalf("expected clamp to 3, got %d", len(got))
	}
}

func TestStore_Search(t *testing.T) {
	s := newNoteStore(Options{})
	_, _ = s.Create(note{Slug: "golang-tips", Body: "Channels and MUTEXES"})
	_, _ = s.Create(note{Slug: "rust-notes", Body: "ownership"})
	_, _ = s.Create(note{Slug: "misc", Body: "mutex contention"})

	got := s.Search("Mutex", nil, 0, 10)
	if len(got) != 2 || got[0].Slug != "golang-tips" || got[1].Slug != "misc" {
		t.Fatalf("unexpected search result: %+v", got)
	}
	if got := s.Search("mutex", nil, 1, 10); len(got) != 1 || got[0].Slug != "misc" {
		t.Fatalf("search skip not applied: %+v", got)
	}
	onlyFirst := func(n note) bool { return n.ID == 1 }
	if got := s.Search("mutex", onlyFirst, 0, 10); len(got) != 1 {
		t.Fatalf("search predicate not applied: %+v", got)
	}
	if got := s.Search("python", nil, 0, 10); len(got) != 0 {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestStore_Update(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := newNoteStore(Options{Now: fixedClock(now)})
	a, _ := s.Create(note{Slug: "a"})

	updated, err := s.Update(a.ID, func(n *note) error {
		n.Body = "hello"
		n.ID = 999
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != a.ID {
		t.Fatalf("id must be immutable, got %d", updated.ID)
	}
	if updated.UpdatedAt == nil || !updated.UpdatedAt.Equal(now) {
		t.Fatalf("expected updated_at %v, got %v", now, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(a.CreatedAt) {
		t.Fatal("created_at changed on update")
	}
	if _, err := s.Get(999); !errors.Is(err, errNoteNotFound) {
		t.Fatal("entity became reachable under a new id")
	}
}

func TestStore_UpdateUniqueness(t *testing.T) {
	s := newNoteStore(Options{})
	a, _ := s.Create(note{Slug: "a"})
	b, _ := s.Create(note{Slug: "b"})

	// Keeping its own value is not a conflict.
	if _, err := s.Update(a.ID, func(n *note) error { n.Slug = "a"; return nil }); err != nil {
		t.Fatalf("self update conflicted: %v", err)
	}

	_, err := s.Update(b.ID, func(n *note) error { n.Slug = "a"; n.Body = "x"; return nil })
	if !errors.Is(err, errSlugTaken) {
		t.Fatalf("expected errSlugTaken, got %v", err)
	}
	got, _ := s.Get(b.ID)
	if got.Slug != "b" || got.Body != "" {
		t.Fatalf("failed update changed state: %+v", got)
	}

	// Renaming frees the old value.
	if _, err := s.Update(a.ID, func(n *note) error { n.Slug = "z"; return nil }); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := s.Create(note{Slug: "a"}); err != nil {
		t.Fatalf("old slug should be free: %v", err)
	}
	if found, err := s.FindUnique("slug", "z"); err != nil || found.ID != a.ID {
		t.Fatalf("expected index to follow rename, got %+v (%v)", found, err)
	}
}

func TestStore_UpdateMutateErrorLeavesStateUnchanged(t *testing.T) {
	s := newNoteStore(Options{})
	a, _ := s.Create(note{Slug: "a", Body: "orig"})
	boom := errors.New("boom")

	_, err := s.Update(a.ID, func(n *note) error {
		n.Body = "changed"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, _ := s.Get(a.ID)
	if got.Body != "orig" || got.UpdatedAt != nil {
		t.Fatalf("state changed after failed mutate: %+v", got)
	}
}

func TestStore_UpdateNotFound(t *testing.T) {
	s := newNoteStore(Options{})
	_, err := s.Update(1, func(*note) error { return nil })
	if !errors.Is(err, errNoteNotFound) {
		t.Fatalf("expected errNoteNotFound, got %v", err)
	}
}

func TestStore_DeleteFreesUniqueValues(t *testing.T) {
	s := newNoteStore(Options{})
	a, _ := s.Create(note{Slug: "a"})
	if !s.Delete(a.ID) {
		t.Fatal("expected delete to succeed")
	}
	if s.Delete(a.ID) {
		t.Fatal("second delete should report false")
	}
	if _, err := s.FindUnique("slug", "a"); !errors.Is(err, errNoteNotFound) {
		t.Fatalf("deleted entity still indexed: %v", err)
	}
	if _, err := s.Create(note{Slug: "a"}); err != nil {
		t.Fatalf("slug should be reusable: %v", err)
	}
}

func TestStore_ConcurrentCreateUniqueIDs(t *testing.T) {
	s := newNoteStore(Options{MaxLimit: 1000, DefaultLimit: 1000})
	const workers, perWorker = 16, 50

	var wg sync.WaitGroup
	ids := make(chan int64, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				n, err := s.Create(note{Slug: fmt.Sprintf("w%d-%d", w, i)})
				if err != nil {
					t.Errorf("create: %v", err)
					return
				}
				ids <- n.ID
			}
		}(w)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d ids, got %d", workers*perWorker, len(seen))
	}

	listed := s.List(nil, 0, 1000)
	for i := 1; i < len(listed); i++ {
		if listed[i].ID <= listed[i-1].ID {
			t.Fatalf("insertion order not monotonic at %d", i)
		}
	}
}

func TestStore_ConcurrentUniqueCreate(t *testing.T) {
	s := newNoteStore(Options{})
	const attempts = 32

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Create(note{Slug: "same"}); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 || s.Len() != 1 {
		t.Fatalf("expected exactly one winner, got %d (len %d)", wins, s.Len())
	}
}

func TestStore_ConcurrentReadersAndWriters(t *testing.T) {
	s := newNoteStore(Options{})
	for i := 0; i < 20; i++ {
		_, _ = s.Create(note{Slug: fmt.Sprintf("seed%d", i), Body: "v0"})
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for _, n := range s.List(nil, 0, 100) {
					if n.Body != "v0" && n.Body != "v1" {
						t.Errorf("torn read: %q", n.Body)
						return
					}
				}
			}
		}()
	}

	for i := int64(1); i <= 20; i++ {
		_, _ = s.Update(i, func(n *note) error { n.Body = "v1"; return nil })
		if i%5 == 0 {
			s.Delete(i)
		}
	}
	close(stop)
	wg.Wait()
}
