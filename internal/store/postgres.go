package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirdesai22/registration-dashboard/internal/models"
	"gorm.io/gorm"
)

// PostgresStore persists registrations with gorm. Every mutation appends an
// outbox event in the same transaction so the search index can follow.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Registration, error) {
	var regs []models.Registration
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	var r models.Registration
	err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) Create(ctx context.Context, r *models.Registration) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return CreateTx(tx, r)
	})
}

// CreateTx inserts r and its outbox event using an existing transaction.
func CreateTx(tx *gorm.DB, r *models.Registration) error {
	if err := tx.Create(r).Error; err != nil {
		return translate(err)
	}
	return AddOutboxEvent(tx, models.EntityRegistration, r.ID, models.OpUpsert, r)
}

func (s *PostgresStore) Update(ctx context.Context, r *models.Registration) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Registration{}).Where("id = ?", r.ID).Updates(map[string]any{
			"name":    r.Name,
			"email":   r.Email,
			"course":  r.Course,
			"branch":  r.Branch,
			"college": r.College,
			"contact": r.Contact,
			"event":   r.Event,
		})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.First(r, "id = ?", r.ID).Error; err != nil {
			return fmt.Errorf("reload registration: %w", err)
		}
		return AddOutboxEvent(tx, models.EntityRegistration, r.ID, models.OpUpsert, r)
	})
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Registration{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete registration: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return AddOutboxEvent(tx, models.EntityRegistration, id, models.OpDelete, nil)
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return fmt.Errorf("write registration: %w", err)
}
