package mockapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eventhub.dev/cli/internal/core/category"
	"eventhub.dev/cli/internal/core/event"
)

type categoryModel struct {
	ID        string `gorm:"primaryKey;type:char(24)"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
}

func (categoryModel) TableName() string { return "categories" }

type eventModel struct {
	ID          string `gorm:"primaryKey;type:char(24)"`
	Name        string `gorm:"not null"`
	Description string
	Price       string
	CategoryID  string `gorm:"index;type:char(24)"`
	TeamSize    string
	Venue       string
	EventDate   string
	Contact     string
	PhotoName   string
	Photo       []byte
	CreatedAt   time.Time
}

func (eventModel) TableName() string { return "events" }

// GormStore is a Store backed by PostgreSQL through gorm
type GormStore struct {
	db *gorm.DB
}

// OpenGormStore connects to dsn and migrates the schema
func OpenGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewGormStore(db)
}

// NewGormStore wraps an open connection and migrates the schema
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&categoryModel{}, &eventModel{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) ListCategories(ctx context.Context) (category.List, error) {
	var rows []categoryModel
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	list := make(category.List, 0, len(rows))
	for _, row := range rows {
		list = append(list, category.Category{ID: row.ID, Name: row.Name})
	}
	return list, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, name string) (category.Category, error) {
	c, err := category.NewCategory(NewID(), name)
	if err != nil {
		return category.Category{}, err
	}

	row := categoryModel{ID: c.ID, Name: c.Name}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return category.Category{}, fmt.Errorf("could not create category: %w", err)
	}
	return c, nil
}

func (s *GormStore) FindCategory(ctx context.Context, id string) (category.Category, error) {
	var row categoryModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return category.Category{}, fmt.Errorf("%w: %s", category.ErrNotFound, id)
	}
	if err != nil {
		return category.Category{}, fmt.Errorf("db error: %w", err)
	}
	return category.Category{ID: row.ID, Name: row.Name}, nil
}

func (s *GormStore) CreateEvent(ctx context.Context, record event.Record, photo *event.Photo) (event.Record, error) {
	if record.ID == "" {
		record.ID = NewID()
	}
	record.HasPhoto = photo != nil

	row := toEventModel(record, photo)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return event.Record{}, fmt.Errorf("could not create event: %w", err)
	}
	return record, nil
}

func (s *GormStore) ListEvents(ctx context.Context) ([]event.Record, error) {
	var rows []eventModel
	if err := s.db.WithContext(ctx).Omit("photo").Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	records := make([]event.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

func toEventModel(r event.Record, photo *event.Photo) eventModel {
	m := eventModel{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.Category,
		TeamSize:    r.TeamSize,
		Venue:       r.Venue,
		EventDate:   r.EventDate,
		Contact:     r.Contact,
		CreatedAt:   r.CreatedAt,
	}
	if photo != nil {
		m.PhotoName = photo.Name
		m.Photo = photo.Data
	}
	return m
}

func (m eventModel) record() event.Record {
	return event.Record{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.CategoryID,
		TeamSize:    m.TeamSize,
		Venue:       m.Venue,
		EventDate:   m.EventDate,
		Contact:     m.Contact,
		HasPhoto:    m.PhotoName != "",
		CreatedAt:   m.CreatedAt,
	}
}

func (s *GormStore) Photo(ctx context.Context, id string) (*event.Photo, error) {
	var row eventModel
	err := s.db.WithContext(ctx).Select("id", "photo_name", "photo").Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if row.PhotoName == "" {
		return nil, ErrNoPhoto
	}
	return &event.Photo{Name: row.PhotoName, Data: row.Photo}, nil
}
