package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ndolgov/auth-service/internal/models"
)

// DefaultQuestions is the catalog seeded on first start.
var DefaultQuestions = []string{
	"What was the name of your first pet?",
	"What was the make and model of your first car?",
	"What elementary school did you attend?",
	"In what city were you born?",
	"What is your mother's maiden name?",
}

func (s *GormStore) QuestionByID(ctx context.Context, id uint) (*models.SecurityQuestion, error) {
	var q models.SecurityQuestion
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// ActiveQuestions returns the active catalog in stable id order.
func (s *GormStore) ActiveQuestions(ctx context.Context) ([]models.SecurityQuestion, error) {
	var qs []models.SecurityQuestion
	if err := s.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&qs).Error; err != nil {
		return nil, err
	}
	return qs, nil
}

// SeedDefaultQuestions inserts the default catalog entries that are not
// present yet. Safe to run on every start.
func (s *GormStore) SeedDefaultQuestions(ctx context.Context) error {
	for _, text := range DefaultQuestions {
		q := models.SecurityQuestion{Question: text, IsActive: true}
		if err := s.DB.WithContext(ctx).
			Where("question = ?", text).
			FirstOrCreate(&q).Error; err != nil {
			return err
		}
	}
	return nil
}
