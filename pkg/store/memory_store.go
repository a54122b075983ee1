package store

import (
	"sort"
	"sync"

	"eduportal/pkg/domain"
)

// MemoryStore keeps all documents in process memory. It backs tests and
// local development without a MongoDB instance.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	email     map[string]string // email -> user ID
	events    map[string]domain.Event
	notes     map[string]domain.Note
	resources map[string]domain.Resource
	inserted  map[string]int // id -> insertion sequence, for stable ordering
	seq       int
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]domain.User),
		email:     make(map[string]string),
		events:    make(map[string]domain.Event),
		notes:     make(map[string]domain.Note),
		resources: make(map[string]domain.Resource),
		inserted:  make(map[string]int),
	}
}

func (m *MemoryStore) track(id string) {
	if _, ok := m.inserted[id]; !ok {
		m.seq++
		m.inserted[id] = m.seq
	}
}

// SaveUser registers or replaces a user.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.users[u.ID]; ok && prev.Email != u.Email {
		delete(m.email, prev.Email)
	}
	m.users[u.ID] = u
	m.email[u.Email] = u.ID
	return nil
}

// HasUserEmail checks if the email is taken.
func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

// GetUserByEmail fetches a user by email.
func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.email[email]
	if !ok {
		return domain.User{}, false, nil
	}
	u, ok := m.users[id]
	return u, ok, nil
}

// GetUserByIdentifier fetches a user by email or full name.
func (m *MemoryStore) GetUserByIdentifier(emailOrFullName string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.email[emailOrFullName]; ok {
		u, ok := m.users[id]
		return u, ok, nil
	}
	for _, u := range m.users {
		if u.FullName == emailOrFullName {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

// GetUserByID fetches a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// SaveEvent stores or replaces an event.
func (m *MemoryStore) SaveEvent(e domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track(e.ID)
	m.events[e.ID] = e
	return nil
}

// ListEventsByOwner returns the owner's events sorted by date ascending.
// Ties keep insertion order.
func (m *MemoryStore) ListEventsByOwner(ownerID string) ([]domain.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Event, 0)
	for _, e := range m.events {
		if e.OwnerID == ownerID {
			res = append(res, e)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].Date.Equal(res[j].Date) {
			return res[i].Date.Before(res[j].Date)
		}
		return m.inserted[res[i].ID] < m.inserted[res[j].ID]
	})
	return res, nil
}

// GetEvent fetches an event by ID.
func (m *MemoryStore) GetEvent(id string) (domain.Event, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.events[id]
	return e, ok, nil
}

// DeleteEvent removes an event.
func (m *MemoryStore) DeleteEvent(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.events, id)
	return nil
}

// SaveNote stores or replaces a note.
func (m *MemoryStore) SaveNote(n domain.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track(n.ID)
	m.notes[n.ID] = n
	return nil
}

// ListNotesByOwner returns the owner's notes, most recently updated first.
func (m *MemoryStore) ListNotesByOwner(ownerID string) ([]domain.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Note, 0)
	for _, n := range m.notes {
		if n.OwnerID == ownerID {
			res = append(res, n)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].UpdatedAt.Equal(res[j].UpdatedAt) {
			return res[i].UpdatedAt.After(res[j].UpdatedAt)
		}
		return m.inserted[res[i].ID] > m.inserted[res[j].ID]
	})
	return res, nil
}

// GetNote fetches a note by ID.
func (m *MemoryStore) GetNote(id string) (domain.Note, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notes[id]
	return n, ok, nil
}

// DeleteNote removes a note.
func (m *MemoryStore) DeleteNote(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.notes, id)
	return nil
}

// SaveResource stores or replaces a resource.
func (m *MemoryStore) SaveResource(r domain.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track(r.ID)
	m.resources[r.ID] = r
	return nil
}

// ListResourcesByOwner returns the owner's resources, newest first.
func (m *MemoryStore) ListResourcesByOwner(ownerID string) ([]domain.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Resource, 0)
	for _, r := range m.resources {
		if r.OwnerID == ownerID {
			res = append(res, r)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return m.inserted[res[i].ID] > m.inserted[res[j].ID]
	})
	return res, nil
}

// GetResource fetches a resource by ID.
func (m *MemoryStore) GetResource(id string) (domain.Resource, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.resources[id]
	return r, ok, nil
}

// DeleteResource removes a resource.
func (m *MemoryStore) DeleteResource(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.resources, id)
	return nil
}
