package store

import (
	"testing"
	"time"

	"eduportal/pkg/domain"
)

func TestMemoryStoreUserLookup(t *testing.T) {
	s := NewMemoryStore()
	u := domain.User{ID: "u1", FullName: "Ada Lovelace", Email: "ada@example.com"}
	if err := s.SaveUser(u); err != nil {
		t.Fatalf("save user: %v", err)
	}

	ok, err := s.HasUserEmail("ada@example.com")
	if err != nil || !ok {
		t.Fatalf("expected email to exist, ok=%v err=%v", ok, err)
	}

	byEmail, found, err := s.GetUserByIdentifier("ada@example.com")
	if err != nil || !found || byEmail.ID != "u1" {
		t.Fatalf("lookup by email failed: found=%v err=%v", found, err)
	}
	byName, found, err := s.GetUserByIdentifier("Ada Lovelace")
	if err != nil || !found || byName.ID != "u1" {
		t.Fatalf("lookup by full name failed: found=%v err=%v", found, err)
	}
	if _, found, _ := s.GetUserByIdentifier("nobody"); found {
		t.Fatal("unknown identifier should not resolve")
	}
}

func TestMemoryStoreReplacingUserUpdatesEmailIndex(t *testing.T) {
	s := NewMemoryStore()
	if err := s.SaveUser(domain.User{ID: "u1", Email: "old@example.com"}); err != nil {
		t.Fatalf("save user: %v", err)
	}
	if err := s.SaveUser(domain.User{ID: "u1", Email: "new@example.com"}); err != nil {
		t.Fatalf("replace user: %v", err)
	}
	if ok, _ := s.HasUserEmail("old@example.com"); ok {
		t.Fatal("old email should be released")
	}
	if ok, _ := s.HasUserEmail("new@example.com"); !ok {
		t.Fatal("new email should be indexed")
	}
}

func TestMemoryStoreListEventsSortedByDate(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, day := range []int{3, 1, 2} {
		e := domain.Event{
			ID:      string(rune('a' + i)),
			OwnerID: "u1",
			Title:   "event",
			Date:    base.AddDate(0, 0, day),
		}
		if err := s.SaveEvent(e); err != nil {
			t.Fatalf("save event: %v", err)
		}
	}
	if err := s.SaveEvent(domain.Event{ID: "other", OwnerID: "u2", Date: base}); err != nil {
		t.Fatalf("save event: %v", err)
	}

	events, err := s.ListEventsByOwner("u1")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events for u1, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Date.Before(events[i-1].Date) {
			t.Fatalf("events not sorted by date ascending: %v", events)
		}
	}
}

func TestMemoryStoreDeleteEvent(t *testing.T) {
	s := NewMemoryStore()
	if err := s.SaveEvent(domain.Event{ID: "e1", OwnerID: "u1"}); err != nil {
		t.Fatalf("save event: %v", err)
	}
	if err := s.DeleteEvent("e1"); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if _, found, _ := s.GetEvent("e1"); found {
		t.Fatal("deleted event should be gone")
	}
	events, _ := s.ListEventsByOwner("u1")
	if len(events) != 0 {
		t.Fatalf("deleted event still listed: %v", events)
	}
}

func TestMemoryStoreNotesNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		n := domain.Note{
			ID:        string(rune('a' + i)),
			OwnerID:   "u1",
			UpdatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.SaveNote(n); err != nil {
			t.Fatalf("save note: %v", err)
		}
	}
	notes, err := s.ListNotesByOwner("u1")
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 3 || notes[0].ID != "c" || notes[2].ID != "a" {
		t.Fatalf("expected newest-first order, got %v", notes)
	}
}
