package app

import (
	"fmt"
	"strings"
	"time"

	"eduportal/internal/util"
	"eduportal/pkg/domain"
)

// NoteInput carries the fields a client may set on a note.
type NoteInput struct {
	Title   string
	Content string
	Subject string
}

// NotePatch carries a partial note update; nil fields are left unchanged.
type NotePatch struct {
	Title   *string
	Content *string
	Subject *string
}

// ListNotes returns the caller's notes, most recently updated first.
func (a *App) ListNotes(user domain.User) ([]domain.Note, error) {
	return a.store.ListNotesByOwner(user.ID)
}

// CreateNote stores a new note owned by the caller.
func (a *App) CreateNote(user domain.User, input NoteInput) (domain.Note, error) {
	if strings.TrimSpace(input.Title) == "" {
		return domain.Note{}, fmt.Errorf("title is required")
	}
	now := time.Now().UTC()
	note := domain.Note{
		ID:        util.NewID(),
		OwnerID:   user.ID,
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		Subject:   input.Subject,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.SaveNote(note); err != nil {
		return domain.Note{}, fmt.Errorf("save note: %w", err)
	}
	return note, nil
}

// UpdateNote applies a partial update to one of the caller's notes.
func (a *App) UpdateNote(user domain.User, id string, patch NotePatch) (domain.Note, error) {
	note, ok, err := a.store.GetNote(id)
	if err != nil {
		return domain.Note{}, fmt.Errorf("fetch note: %w", err)
	}
	if !ok || note.OwnerID != user.ID {
		return domain.Note{}, ErrNotFound
	}
	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if patch.Subject != nil {
		note.Subject = *patch.Subject
	}
	note.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveNote(note); err != nil {
		return domain.Note{}, fmt.Errorf("save note: %w", err)
	}
	return note, nil
}

// DeleteNote removes one of the caller's notes.
func (a *App) DeleteNote(user domain.User, id string) error {
	note, ok, err := a.store.GetNote(id)
	if err != nil {
		return fmt.Errorf("fetch note: %w", err)
	}
	if !ok || note.OwnerID != user.ID {
		return ErrNotFound
	}
	if err := a.store.DeleteNote(id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
