package mockapi

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventhub.dev/cli/internal/core/category"
	"eventhub.dev/cli/internal/core/event"
)

// DefaultCategories are seeded into an empty store
var DefaultCategories = []string{"Hackathon", "Workshop", "Conference", "Meetup"}

// Store persists the categories and events served by the mock backend
type Store interface {
	ListCategories(ctx context.Context) (category.List, error)
	CreateCategory(ctx context.Context, name string) (category.Category, error)
	FindCategory(ctx context.Context, id string) (category.Category, error)
	CreateEvent(ctx context.Context, record event.Record, photo *event.Photo) (event.Record, error)
	ListEvents(ctx context.Context) ([]event.Record, error)
	// Photo returns the photo stored with an event; ErrNoPhoto when the
	// event has none, ErrEventNotFound when the id is unknown
	Photo(ctx context.Context, id string) (*event.Photo, error)
}

var (
	ErrEventNotFound = errors.New("event not found")
	ErrNoPhoto       = errors.New("event has no photo")
)

// NewID returns a fresh document id in ObjectID hex form
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed ObjectID hex string
func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// Seed adds names as categories when the store has none
func Seed(ctx context.Context, store Store, names []string) (int, error) {
	existing, err := store.ListCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list categories: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, name := range names {
		if _, err := store.CreateCategory(ctx, name); err != nil {
			return i, fmt.Errorf("failed to seed category %q: %w", name, err)
		}
	}
	return len(names), nil
}

// MemoryStore is a Store kept in process memory
type MemoryStore struct {
	mu         sync.RWMutex
	categories category.List
	events     []event.Record
	photos     map[string]*event.Photo
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories: category.List{},
		events:     []event.Record{},
		photos:     map[string]*event.Photo{},
	}
}

func (s *MemoryStore) ListCategories(ctx context.Context) (category.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories.Clone(), nil
}

func (s *MemoryStore) CreateCategory(ctx context.Context, name string) (category.Category, error) {
	c, err := category.NewCategory(NewID(), name)
	if err != nil {
		return category.Category{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *MemoryStore) FindCategory(ctx context.Context, id string) (category.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories.Find(id)
}

func (s *MemoryStore) CreateEvent(ctx context.Context, record event.Record, photo *event.Photo) (event.Record, error) {
	if record.ID == "" {
		record.ID = NewID()
	}
	record.HasPhoto = photo != nil

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, record)
	if photo != nil {
		s.photos[record.ID] = photo
	}
	return record, nil
}

func (s *MemoryStore) ListEvents(ctx context.Context) ([]event.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]event.Record{}, s.events...), nil
}

func (s *MemoryStore) Photo(ctx context.Context, id string) (*event.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if photo, ok := s.photos[id]; ok {
		return photo, nil
	}
	for _, r := range s.events {
		if r.ID == id {
			return nil, ErrNoPhoto
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
}
