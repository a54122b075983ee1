package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eduportal/pkg/domain"
)

const mongoOpTimeout = 5 * time.Second

// MongoStore implements Store on top of a MongoDB database.
type MongoStore struct {
	users     *mongo.Collection
	events    *mongo.Collection
	notes     *mongo.Collection
	resources *mongo.Collection
}

// NewMongoStore connects to MongoDB, pings it, and ensures indexes.
func NewMongoStore(uri, dbName string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo uri required")
	}
	if dbName == "" {
		dbName = "eduportal"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(dbName)
	s := &MongoStore{
		users:     db.Collection("users"),
		events:    db.Collection("events"),
		notes:     db.Collection("notes"),
		resources: db.Collection("resources"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure user email index: %w", err)
	}
	for _, coll := range []*mongo.Collection{s.events, s.notes, s.resources} {
		if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "ownerId", Value: 1}},
		}); err != nil {
			return fmt.Errorf("ensure owner index on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), mongoOpTimeout)
}

// SaveUser stores or replaces a user document.
func (s *MongoStore) SaveUser(u domain.User) error {
	ctx, cancel := opCtx()
	defer cancel()
	opts := options.Replace().SetUpsert(true)
	if _, err := s.users.ReplaceOne(ctx, bson.M{"_id": u.ID}, u, opts); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// HasUserEmail checks whether an account already uses the email.
func (s *MongoStore) HasUserEmail(email string) (bool, error) {
	ctx, cancel := opCtx()
	defer cancel()
	count, err := s.users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}

// GetUserByEmail fetches a user by email.
func (s *MongoStore) GetUserByEmail(email string) (domain.User, bool, error) {
	return s.findUser(bson.M{"email": email})
}

// GetUserByIdentifier fetches a user by email or full name, matching the
// portal's login form which accepts either.
func (s *MongoStore) GetUserByIdentifier(emailOrFullName string) (domain.User, bool, error) {
	return s.findUser(bson.M{"$or": bson.A{
		bson.M{"email": emailOrFullName},
		bson.M{"fullName": emailOrFullName},
	}})
}

// GetUserByID fetches a user by ID.
func (s *MongoStore) GetUserByID(id string) (domain.User, bool, error) {
	return s.findUser(bson.M{"_id": id})
}

func (s *MongoStore) findUser(filter bson.M) (domain.User, bool, error) {
	ctx, cancel := opCtx()
	defer cancel()
	var u domain.User
	err := s.users.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("find user: %w", err)
	}
	return u, true, nil
}

// SaveEvent stores or replaces an event document.
func (s *MongoStore) SaveEvent(e domain.Event) error {
	ctx, cancel := opCtx()
	defer cancel()
	opts := options.Replace().SetUpsert(true)
	if _, err := s.events.ReplaceOne(ctx, bson.M{"_id": e.ID}, e, opts); err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// ListEventsByOwner returns the owner's events sorted by date ascending.
func (s *MongoStore) ListEventsByOwner(ownerID string) ([]domain.Event, error) {
	ctx, cancel := opCtx()
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := s.events.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cursor.Close(ctx)
	events := make([]domain.Event, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// GetEvent fetches an event by ID.
func (s *MongoStore) GetEvent(id string) (domain.Event, bool, error) {
	ctx, cancel := opCtx()
	defer cancel()
	var e domain.Event
	err := s.events.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Event{}, false, nil
	}
	if err != nil {
		return domain.Event{}, false, fmt.Errorf("find event: %w", err)
	}
	return e, true, nil
}

// DeleteEvent removes an event by ID.
func (s *MongoStore) DeleteEvent(id string) error {
	ctx, cancel := opCtx()
	defer cancel()
	if _, err := s.events.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// SaveNote stores or replaces a note document.
func (s *MongoStore) SaveNote(n domain.Note) error {
	ctx, cancel := opCtx()
	defer cancel()
	opts := options.Replace().SetUpsert(true)
	if _, err := s.notes.ReplaceOne(ctx, bson.M{"_id": n.ID}, n, opts); err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	return nil
}

// ListNotesByOwner returns the owner's notes, most recently updated first.
func (s *MongoStore) ListNotesByOwner(ownerID string) ([]domain.Note, error) {
	ctx, cancel := opCtx()
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := s.notes.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cursor.Close(ctx)
	notes := make([]domain.Note, 0)
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}

// GetNote fetches a note by ID.
func (s *MongoStore) GetNote(id string) (domain.Note, bool, error) {
	ctx, cancel := opCtx()
	defer cancel()
	var n domain.Note
	err := s.notes.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Note{}, false, nil
	}
	if err != nil {
		return domain.Note{}, false, fmt.Errorf("find note: %w", err)
	}
	return n, true, nil
}

// DeleteNote removes a note by ID.
func (s *MongoStore) DeleteNote(id string) error {
	ctx, cancel := opCtx()
	defer cancel()
	if _, err := s.notes.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// SaveResource stores or replaces a library resource document.
func (s *MongoStore) SaveResource(r domain.Resource) error {
	ctx, cancel := opCtx()
	defer cancel()
	opts := options.Replace().SetUpsert(true)
	if _, err := s.resources.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, opts); err != nil {
		return fmt.Errorf("save resource: %w", err)
	}
	return nil
}

// ListResourcesByOwner returns the owner's resources, newest first.
func (s *MongoStore) ListResourcesByOwner(ownerID string) ([]domain.Resource, error) {
	ctx, cancel := opCtx()
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.resources.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer cursor.Close(ctx)
	resources := make([]domain.Resource, 0)
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("decode resources: %w", err)
	}
	return resources, nil
}

// GetResource fetches a resource by ID.
func (s *MongoStore) GetResource(id string) (domain.Resource, bool, error) {
	ctx, cancel := opCtx()
	defer cancel()
	var r domain.Resource
	err := s.resources.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Resource{}, false, nil
	}
	if err != nil {
		return domain.Resource{}, false, fmt.Errorf("find resource: %w", err)
	}
	return r, true, nil
}

// DeleteResource removes a resource document by ID.
func (s *MongoStore) DeleteResource(id string) error {
	ctx, cancel := opCtx()
	defer cancel()
	if _, err := s.resources.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}
