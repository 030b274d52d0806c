package services

import (
	"context"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

const lessorScope = "lessor"

type LessorStore interface {
	GetLessorByID(ctx context.Context, id int) (models.Lessor, error)
	UpdateLessor(ctx context.Context, id int, u models.LessorUpdate) (models.Lessor, error)
	UpdateProfilePic(ctx context.Context, id int, url string) error
	DeleteLessor(ctx context.Context, id int) error
}

type LessorService struct {
	LessorRepo    LessorStore
	Confirmations *ConfirmationService
}

func (s *LessorService) GetLessorByID(ctx context.Context, id int) (models.Lessor, error) {
	return s.LessorRepo.GetLessorByID(ctx, id)
}

func (s *LessorService) UpdateLessor(ctx context.Context, id int, u models.LessorUpdate) (models.Lessor, error) {
	if u.Blank() {
		return models.Lessor{}, models.NewValidationError("Please fill in all fields")
	}
	return s.LessorRepo.UpdateLessor(ctx, id, u)
}

func (s *LessorService) RequestDelete(ctx context.Context, id int) (string, error) {
	if _, err := s.LessorRepo.GetLessorByID(ctx, id); err != nil {
		return "", err
	}
	return s.Confirmations.Issue(ctx, lessorScope, id)
}

func (s *LessorService) DeclineDelete(ctx context.Context, id int, token string) error {
	return s.Confirmations.Decline(ctx, lessorScope, id, token)
}

// DeleteLessor removes the row only. The stored profile image is left in the bucket.
func (s *LessorService) DeleteLessor(ctx context.Context, id int, token string) error {
	if err := s.Confirmations.Consume(ctx, lessorScope, id, token); err != nil {
		return err
	}
	return s.LessorRepo.DeleteLessor(ctx, id)
}
