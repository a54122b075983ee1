package store

import "eduportal/pkg/domain"

// Store defines persistence operations for users, events, notes, and
// library resources.
type Store interface {
	// users
	SaveUser(domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByIdentifier(emailOrFullName string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)

	// planner events
	SaveEvent(domain.Event) error
	ListEventsByOwner(ownerID string) ([]domain.Event, error)
	GetEvent(id string) (domain.Event, bool, error)
	DeleteEvent(id string) error

	// notes
	SaveNote(domain.Note) error
	ListNotesByOwner(ownerID string) ([]domain.Note, error)
	GetNote(id string) (domain.Note, bool, error)
	DeleteNote(id string) error

	// library resources
	SaveResource(domain.Resource) error
	ListResourcesByOwner(ownerID string) ([]domain.Resource, error)
	GetResource(id string) (domain.Resource, bool, error)
	DeleteResource(id string) error
}

// SessionStore persists session tokens.
type SessionStore interface {
	NewSession(userID string) (string, error)
	GetUserIDByToken(token string) (string, bool, error)
	DeleteSession(token string) error
}
