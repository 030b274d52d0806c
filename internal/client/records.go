package client

import (
	"context"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

// ComplaintRecords adapts the complaint endpoints to a load/save/delete API.
type ComplaintRecords struct {
	c *Client
}

func (c *Client) Complaints() ComplaintRecords { return ComplaintRecords{c: c} }

func (r ComplaintRecords) Get(ctx context.Context, id int) (models.Complaint, error) {
	return r.c.GetComplaint(ctx, id)
}

func (r ComplaintRecords) Update(ctx context.Context, id int, u models.ComplaintUpdate) (models.Complaint, error) {
	return r.c.UpdateComplaint(ctx, id, u)
}

// Delete exchanges a confirmation token and redeems it.
func (r ComplaintRecords) Delete(ctx context.Context, id int) error {
	token, err := r.c.RequestComplaintDelete(ctx, id)
	if err != nil {
		return err
	}
	return r.c.DeleteComplaint(ctx, id, token)
}

type LessorRecords struct {
	c *Client
}

func (c *Client) Lessors() LessorRecords { return LessorRecords{c: c} }

func (r LessorRecords) Get(ctx context.Context, id int) (models.Lessor, error) {
	return r.c.GetLessor(ctx, id)
}

func (r LessorRecords) Update(ctx context.Context, id int, u models.LessorUpdate) (models.Lessor, error) {
	return r.c.UpdateLessor(ctx, id, u)
}

func (r LessorRecords) Delete(ctx context.Context, id int) error {
	token, err := r.c.RequestLessorDelete(ctx, id)
	if err != nil {
		return err
	}
	return r.c.DeleteLessor(ctx, id, token)
}
