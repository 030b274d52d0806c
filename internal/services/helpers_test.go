package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

type fakeComplaints struct {
	created []models.Complaint
	rows    map[int]models.Complaint
	updates []models.ComplaintUpdate
	deleted []int
}

func newFakeComplaints(rows ...models.Complaint) *fakeComplaints {
	f := &fakeComplaints{rows: map[int]models.Complaint{}}
	for _, c := range rows {
		f.rows[c.ID] = c
	}
	return f
}

func (f *fakeComplaints) CreateComplaint(_ context.Context, c models.Complaint) (int, error) {
	f.created = append(f.created, c)
	c.ID = len(f.created) + 100
	f.rows[c.ID] = c
	return c.ID, nil
}

func (f *fakeComplaints) GetAllComplaints(context.Context) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range f.rows {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeComplaints) GetComplaintByID(_ context.Context, id int) (models.Complaint, error) {
	c, ok := f.rows[id]
	if !ok {
		return models.Complaint{}, models.ErrNoRecord
	}
	return c, nil
}

func (f *fakeComplaints) UpdateComplaint(_ context.Context, id int, u models.ComplaintUpdate) (models.Complaint, error) {
	c, ok := f.rows[id]
	if !ok {
		return models.Complaint{}, models.ErrNoRecord
	}
	f.updates = append(f.updates, u)
	c.Complain, c.Detail, c.UserType = u.Complain, u.Detail, u.UserType
	c.Version++
	f.rows[id] = c
	return c, nil
}

func (f *fakeComplaints) DeleteComplaintByID(_ context.Context, id int) error {
	if _, ok := f.rows[id]; !ok {
		return models.ErrNoRecord
	}
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

var errBoom = errors.New("boom")

func confirmations(rdb *redis.Client) *ConfirmationService {
	return &ConfirmationService{Redis: rdb, TTL: 5 * time.Minute}
}
