package app

import (
	"fmt"
	"strings"
	"time"

	"eduportal/internal/util"
	"eduportal/pkg/domain"
)

// EventInput carries the fields a client may set when creating an event.
type EventInput struct {
	Title       string
	Description string
	Date        string // "2006-01-02" or RFC 3339
	StartTime   string
	EndTime     string
	Category    string
	Priority    string
	Status      string
	Color       string
}

// EventPatch carries a partial update; nil fields are left unchanged.
// Both edits and status toggles go through here.
type EventPatch struct {
	Title       *string
	Description *string
	Date        *string
	StartTime   *string
	EndTime     *string
	Category    *string
	Priority    *string
	Status      *string
	Color       *string
}

// ListEvents returns the caller's events sorted by date ascending.
func (a *App) ListEvents(user domain.User) ([]domain.Event, error) {
	return a.store.ListEventsByOwner(user.ID)
}

// CreateEvent stores a new event owned by the caller. Status defaults
// to pending when the client does not set one.
func (a *App) CreateEvent(user domain.User, input EventInput) (domain.Event, error) {
	if strings.TrimSpace(input.Title) == "" {
		return domain.Event{}, fmt.Errorf("title is required")
	}
	date, err := parseEventDate(input.Date)
	if err != nil {
		return domain.Event{}, err
	}
	status := domain.EventStatus(strings.TrimSpace(input.Status))
	if status == "" {
		status = domain.EventPending
	}
	now := time.Now().UTC()
	event := domain.Event{
		ID:          util.NewID(),
		OwnerID:     user.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Date:        date,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      status,
		Color:       input.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.store.SaveEvent(event); err != nil {
		return domain.Event{}, fmt.Errorf("save event: %w", err)
	}
	return event, nil
}

// UpdateEvent applies a partial update to one of the caller's events.
// Events owned by other accounts are reported as not found.
func (a *App) UpdateEvent(user domain.User, id string, patch EventPatch) (domain.Event, error) {
	event, ok, err := a.store.GetEvent(id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("fetch event: %w", err)
	}
	if !ok || event.OwnerID != user.ID {
		return domain.Event{}, ErrNotFound
	}
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Date != nil {
		date, err := parseEventDate(*patch.Date)
		if err != nil {
			return domain.Event{}, err
		}
		event.Date = date
	}
	if patch.StartTime != nil {
		event.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		event.EndTime = *patch.EndTime
	}
	if patch.Category != nil {
		event.Category = *patch.Category
	}
	if patch.Priority != nil {
		event.Priority = *patch.Priority
	}
	if patch.Status != nil {
		event.Status = domain.EventStatus(*patch.Status)
	}
	if patch.Color != nil {
		event.Color = *patch.Color
	}
	event.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveEvent(event); err != nil {
		return domain.Event{}, fmt.Errorf("save event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes one of the caller's events.
func (a *App) DeleteEvent(user domain.User, id string) error {
	event, ok, err := a.store.GetEvent(id)
	if err != nil {
		return fmt.Errorf("fetch event: %w", err)
	}
	if !ok || event.OwnerID != user.ID {
		return ErrNotFound
	}
	if err := a.store.DeleteEvent(id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func parseEventDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t.UTC(), nil
}
