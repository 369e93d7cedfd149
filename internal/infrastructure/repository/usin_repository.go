package repository

import (
	"context"
	"errors"

	"github.com/sangkips/hotelpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/hotelpos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type usinRepository struct {
	db *gorm.DB
}

// NewUsinRepository creates a new invoice number repository
func NewUsinRepository(db *gorm.DB) domainRepo.UsinRepository {
	return &usinRepository{db: db}
}

func (r *usinRepository) Peek(ctx context.Context) (int64, error) {
	businessID, ok := GetBusinessID(ctx)
	if !ok {
		return 0, errors.New("business context required")
	}
	var counter entity.UsinCounter
	err := r.db.WithContext(ctx).First(&counter, "business_id = ?", businessID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return counter.LastValue + 1, nil
}

func (r *usinRepository) Next(ctx context.Context) (int64, error) {
	businessID, ok := GetBusinessID(ctx)
	if !ok {
		return 0, errors.New("business context required")
	}

	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counter := entity.UsinCounter{BusinessID: businessID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&counter, "business_id = ?", businessID).Error; err != nil {
			return err
		}
		counter.LastValue++
		next = counter.LastValue
		return tx.Model(&counter).Update("last_value", counter.LastValue).Error
	})
	return next, err
}
