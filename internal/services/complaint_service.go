package services

import (
	"context"
	"strings"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

const complaintScope = "complaint"

type ComplaintStore interface {
	CreateComplaint(ctx context.Context, c models.Complaint) (int, error)
	GetAllComplaints(ctx context.Context) ([]models.Complaint, error)
	GetComplaintByID(ctx context.Context, id int) (models.Complaint, error)
	UpdateComplaint(ctx context.Context, id int, u models.ComplaintUpdate) (models.Complaint, error)
	DeleteComplaintByID(ctx context.Context, id int) error
}

type ComplaintService struct {
	ComplaintRepo ComplaintStore
	Confirmations *ConfirmationService
}

// SubmitComplaint stores a complaint tagged with role, which comes from the
// route the submitter used.
func (s *ComplaintService) SubmitComplaint(ctx context.Context, role string, sub models.ComplaintSubmission) (int, error) {
	if !models.ValidUserType(role) {
		return 0, models.ErrUnsupportedUserType
	}
	if strings.TrimSpace(sub.Complain) == "" || strings.TrimSpace(sub.Detail) == "" || sub.SubmitterID <= 0 {
		return 0, models.NewValidationError("All fields are required.")
	}
	return s.ComplaintRepo.CreateComplaint(ctx, models.Complaint{
		Complain:    sub.Complain,
		Detail:      sub.Detail,
		SubmitterID: sub.SubmitterID,
		UserType:    role,
	})
}

func (s *ComplaintService) GetAllComplaints(ctx context.Context) ([]models.Complaint, error) {
	return s.ComplaintRepo.GetAllComplaints(ctx)
}

func (s *ComplaintService) GetComplaintByID(ctx context.Context, id int) (models.Complaint, error) {
	return s.ComplaintRepo.GetComplaintByID(ctx, id)
}

func (s *ComplaintService) UpdateComplaint(ctx context.Context, id int, u models.ComplaintUpdate) (models.Complaint, error) {
	if !models.ValidUserType(u.UserType) {
		return models.Complaint{}, models.ErrUnsupportedUserType
	}
	if strings.TrimSpace(u.Complain) == "" || strings.TrimSpace(u.Detail) == "" {
		return models.Complaint{}, models.NewValidationError("All fields are required.")
	}
	return s.ComplaintRepo.UpdateComplaint(ctx, id, u)
}

// RequestDelete issues a confirmation token for an existing complaint.
func (s *ComplaintService) RequestDelete(ctx context.Context, id int) (string, error) {
	if _, err := s.ComplaintRepo.GetComplaintByID(ctx, id); err != nil {
		return "", err
	}
	return s.Confirmations.Issue(ctx, complaintScope, id)
}

func (s *ComplaintService) DeclineDelete(ctx context.Context, id int, token string) error {
	return s.Confirmations.Decline(ctx, complaintScope, id, token)
}

func (s *ComplaintService) DeleteComplaintByID(ctx context.Context, id int, token string) error {
	if err := s.Confirmations.Consume(ctx, complaintScope, id, token); err != nil {
		return err
	}
	return s.ComplaintRepo.DeleteComplaintByID(ctx, id)
}
