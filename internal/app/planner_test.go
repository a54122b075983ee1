package app

import (
	"testing"

	"eduportal/pkg/domain"
)

func signUpUser(t *testing.T, ta *testApp, name, email string) domain.User {
	t.Helper()
	user, _, err := ta.SignUp(name, email, "passw0rd")
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return user
}

func TestCreateEventDefaultsAndListOrder(t *testing.T) {
	ta := newTestApp(t)
	user := signUpUser(t, ta, "Ada Lovelace", "ada@example.com")

	later, err := ta.CreateEvent(user, EventInput{Title: "Exam", Date: "2026-09-20"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if later.Status != domain.EventPending {
		t.Fatalf("status should default to pending, got %q", later.Status)
	}
	earlier, err := ta.CreateEvent(user, EventInput{Title: "Study session", Date: "2026-09-01", StartTime: "14:00", EndTime: "16:00"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	events, err := ta.ListEvents(user)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ID != earlier.ID || events[1].ID != later.ID {
		t.Fatalf("events not sorted by date ascending: %v, %v", events[0].Date, events[1].Date)
	}
}

func TestCreateEventValidation(t *testing.T) {
	ta := newTestApp(t)
	user := signUpUser(t, ta, "Ada Lovelace", "ada@example.com")

	if _, err := ta.CreateEvent(user, EventInput{Date: "2026-09-20"}); err == nil {
		t.Fatal("missing title accepted")
	}
	if _, err := ta.CreateEvent(user, EventInput{Title: "Exam"}); err == nil {
		t.Fatal("missing date accepted")
	}
	if _, err := ta.CreateEvent(user, EventInput{Title: "Exam", Date: "20/09/2026"}); err == nil {
		t.Fatal("malformed date accepted")
	}
}

func TestUpdateEventToggleStatus(t *testing.T) {
	ta := newTestApp(t)
	user := signUpUser(t, ta, "Ada Lovelace", "ada@example.com")
	event, err := ta.CreateEvent(user, EventInput{Title: "Exam", Date: "2026-09-20"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	completed := string(domain.EventCompleted)
	updated, err := ta.UpdateEvent(user, event.ID, EventPatch{Status: &completed})
	if err != nil {
		t.Fatalf("toggle to completed: %v", err)
	}
	if updated.Status != domain.EventCompleted {
		t.Fatalf("expected completed, got %q", updated.Status)
	}

	pending := string(domain.EventPending)
	restored, err := ta.UpdateEvent(user, event.ID, EventPatch{Status: &pending})
	if err != nil {
		t.Fatalf("toggle back to pending: %v", err)
	}
	if restored.Status != domain.EventPending {
		t.Fatalf("expected pending, got %q", restored.Status)
	}
	if restored.Title != event.Title || !restored.Date.Equal(event.Date) {
		t.Fatalf("toggle must not change other fields: %+v", restored)
	}
}

func TestUpdateEventPartialPatch(t *testing.T) {
	ta := newTestApp(t)
	user := signUpUser(t, ta, "Ada Lovelace", "ada@example.com")
	event, err := ta.CreateEvent(user, EventInput{Title: "Exam", Description: "Chapter 1-4", Date: "2026-09-20", Priority: "high"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	title := "Final exam"
	updated, err := ta.UpdateEvent(user, event.ID, EventPatch{Title: &title})
	if err != nil {
		t.Fatalf("update event: %v", err)
	}
	if updated.Title != "Final exam" {
		t.Fatalf("title not updated: %q", updated.Title)
	}
	if updated.Description != "Chapter 1-4" || updated.Priority != "high" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestDeleteEvent(t *testing.T) {
	ta := newTestApp(t)
	user := signUpUser(t, ta, "Ada Lovelace", "ada@example.com")
	event, err := ta.CreateEvent(user, EventInput{Title: "Exam", Date: "2026-09-20"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := ta.DeleteEvent(user, event.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	events, err := ta.ListEvents(user)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty list, got %d", len(events))
	}
	if err := ta.DeleteEvent(user, event.ID); err != ErrNotFound {
		t.Fatalf("second delete expected ErrNotFound, got %v", err)
	}
}

func TestEventsAreOwnerScoped(t *testing.T) {
	ta := newTestApp(t)
	ada := signUpUser(t, ta, "Ada Lovelace", "ada@example.com")
	bob := signUpUser(t, ta, "Bob Martin", "bob@example.com")

	event, err := ta.CreateEvent(ada, EventInput{Title: "Exam", Date: "2026-09-20"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	bobEvents, err := ta.ListEvents(bob)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(bobEvents) != 0 {
		t.Fatalf("another account's events leaked: %d", len(bobEvents))
	}

	title := "Hijacked"
	if _, err := ta.UpdateEvent(bob, event.ID, EventPatch{Title: &title}); err != ErrNotFound {
		t.Fatalf("cross-owner update expected ErrNotFound, got %v", err)
	}
	if err := ta.DeleteEvent(bob, event.ID); err != ErrNotFound {
		t.Fatalf("cross-owner delete expected ErrNotFound, got %v", err)
	}

	adaEvents, err := ta.ListEvents(ada)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(adaEvents) != 1 || adaEvents[0].Title != "Exam" {
		t.Fatalf("owner's event changed by cross-owner calls: %+v", adaEvents)
	}
}
