package domain

import "time"

// EventStatus tracks a planner event's completion state.
type EventStatus string

const (
	EventPending   EventStatus = "pending"
	EventCompleted EventStatus = "completed"
)

type User struct {
	ID           string    `json:"id" bson:"_id"`
	FullName     string    `json:"fullName" bson:"fullName"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Verified     bool      `json:"verified" bson:"verified"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Event struct {
	ID          string      `json:"id" bson:"_id"`
	OwnerID     string      `json:"-" bson:"ownerId"`
	Title       string      `json:"title" bson:"title"`
	Description string      `json:"description" bson:"description"`
	Date        time.Time   `json:"date" bson:"date"`
	StartTime   string      `json:"startTime" bson:"startTime"`
	EndTime     string      `json:"endTime" bson:"endTime"`
	Category    string      `json:"category" bson:"category"`
	Priority    string      `json:"priority" bson:"priority"`
	Status      EventStatus `json:"status" bson:"status"`
	Color       string      `json:"color" bson:"color"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

type Note struct {
	ID        string    `json:"id" bson:"_id"`
	OwnerID   string    `json:"-" bson:"ownerId"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	Subject   string    `json:"subject" bson:"subject"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Resource describes a library file whose payload lives in object storage.
type Resource struct {
	ID          string    `json:"id" bson:"_id"`
	OwnerID     string    `json:"-" bson:"ownerId"`
	Title       string    `json:"title" bson:"title"`
	FileName    string    `json:"fileName" bson:"fileName"`
	ContentType string    `json:"contentType" bson:"contentType"`
	SizeBytes   int64     `json:"sizeBytes" bson:"sizeBytes"`
	StorageKey  string    `json:"-" bson:"storageKey"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// ChatMessage is one turn of an account's AI conversation. It is held
// in process memory only and never written to the document store.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
