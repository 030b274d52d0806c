package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

const complaintColumns = `complain_id, complain, detail, submitter_id, user_type, version, created_at`

type ComplaintRepository struct {
	DB *sqlx.DB
}

func (r *ComplaintRepository) CreateComplaint(ctx context.Context, c models.Complaint) (int, error) {
	query := `INSERT INTO complain (submitter_id, complain, detail, user_type, version) VALUES (?, ?, ?, ?, 1)`
	return insertReturningID(ctx, r.DB, query, "complain_id", c.SubmitterID, c.Complain, c.Detail, c.UserType)
}

func (r *ComplaintRepository) GetAllComplaints(ctx context.Context) ([]models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complain ORDER BY created_at DESC`
	complaints := []models.Complaint{}
	if err := r.DB.SelectContext(ctx, &complaints, query); err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *ComplaintRepository) GetComplaintByID(ctx context.Context, id int) (models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complain WHERE complain_id = ?`
	var c models.Complaint
	if err := r.DB.GetContext(ctx, &c, r.DB.Rebind(query), id); err != nil {
		return models.Complaint{}, notFound(err)
	}
	return c, nil
}

// UpdateComplaint writes the editable columns only; complain_id is never touched.
func (r *ComplaintRepository) UpdateComplaint(ctx context.Context, id int, u models.ComplaintUpdate) (models.Complaint, error) {
	query, args := versioned(
		`UPDATE complain SET complain = ?, detail = ?, user_type = ?, version = version + 1 WHERE complain_id = ?`,
		[]interface{}{u.Complain, u.Detail, u.UserType, id},
		u.Version,
	)
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(query), args...)
	if err != nil {
		return models.Complaint{}, classify(err)
	}
	if err := updateOutcome(res, func() (bool, error) {
		return rowExists(ctx, r.DB, "complain", "complain_id", id)
	}); err != nil {
		return models.Complaint{}, err
	}
	return r.GetComplaintByID(ctx, id)
}

func (r *ComplaintRepository) DeleteComplaintByID(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM complain WHERE complain_id = ?`), id)
	if err != nil {
		return classifyDelete(err)
	}
	return deleteOutcome(res)
}
