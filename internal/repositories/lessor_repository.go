package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

const lessorColumns = `lessor_id, lessor_firstname, lessor_lastname, lessor_phone_number, lessor_line_url, lessor_profile_pic, version`

type LessorRepository struct {
	DB *sqlx.DB
}

func (r *LessorRepository) GetLessorByID(ctx context.Context, id int) (models.Lessor, error) {
	query := `SELECT ` + lessorColumns + ` FROM lessor WHERE lessor_id = ?`
	var l models.Lessor
	if err := r.DB.GetContext(ctx, &l, r.DB.Rebind(query), id); err != nil {
		return models.Lessor{}, notFound(err)
	}
	return l, nil
}

func (r *LessorRepository) UpdateLessor(ctx context.Context, id int, u models.LessorUpdate) (models.Lessor, error) {
	query, args := versioned(
		`UPDATE lessor SET lessor_firstname = ?, lessor_lastname = ?, lessor_phone_number = ?, lessor_line_url = ?, lessor_profile_pic = ?, version = version + 1 WHERE lessor_id = ?`,
		[]interface{}{u.FirstName, u.LastName, u.PhoneNumber, u.LineURL, u.ProfilePic, id},
		u.Version,
	)
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(query), args...)
	if err != nil {
		return models.Lessor{}, classify(err)
	}
	if err := updateOutcome(res, func() (bool, error) {
		return rowExists(ctx, r.DB, "lessor", "lessor_id", id)
	}); err != nil {
		return models.Lessor{}, err
	}
	return r.GetLessorByID(ctx, id)
}

// UpdateProfilePic points the lessor row at a new image URL.
func (r *LessorRepository) UpdateProfilePic(ctx context.Context, id int, url string) error {
	res, err := r.DB.ExecContext(ctx,
		r.DB.Rebind(`UPDATE lessor SET lessor_profile_pic = ?, version = version + 1 WHERE lessor_id = ?`),
		url, id)
	if err != nil {
		return err
	}
	return deleteOutcome(res)
}

func (r *LessorRepository) DeleteLessor(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM lessor WHERE lessor_id = ?`), id)
	if err != nil {
		return classifyDelete(err)
	}
	return deleteOutcome(res)
}
