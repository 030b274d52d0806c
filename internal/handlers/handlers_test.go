package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bmizerany/pat"
	"github.com/redis/go-redis/v9"

	"github.com/ChanaPCN/parkify-app/internal/models"
	"github.com/ChanaPCN/parkify-app/internal/services"
)

type memComplaints struct {
	rows    map[int]models.Complaint
	reads   int
	deleted []int
}

func (m *memComplaints) CreateComplaint(_ context.Context, c models.Complaint) (int, error) {
	c.ID = len(m.rows) + 1
	m.rows[c.ID] = c
	return c.ID, nil
}

func (m *memComplaints) GetAllComplaints(context.Context) ([]models.Complaint, error) {
	out := []models.Complaint{}
	for _, c := range m.rows {
		out = append(out, c)
	}
	return out, nil
}

func (m *memComplaints) GetComplaintByID(_ context.Context, id int) (models.Complaint, error) {
	m.reads++
	c, ok := m.rows[id]
	if !ok {
		return models.Complaint{}, models.ErrNoRecord
	}
	return c, nil
}

func (m *memComplaints) UpdateComplaint(_ context.Context, id int, u models.ComplaintUpdate) (models.Complaint, error) {
	c, ok := m.rows[id]
	if !ok {
		return models.Complaint{}, models.ErrNoRecord
	}
	if u.Version > 0 && u.Version != c.Version {
		return models.Complaint{}, models.ErrConflict
	}
	c.Complain, c.Detail, c.UserType = u.Complain, u.Detail, u.UserType
	c.Version++
	m.rows[id] = c
	return c, nil
}

func (m *memComplaints) DeleteComplaintByID(_ context.Context, id int) error {
	if _, ok := m.rows[id]; !ok {
		return models.ErrNoRecord
	}
	delete(m.rows, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type memObjects struct {
	calls     []string
	deleteErr error
}

func (m *memObjects) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	m.calls = append(m.calls, "put:"+key)
	_, err := io.Copy(io.Discard, r)
	return err
}

func (m *memObjects) Delete(_ context.Context, key string) error {
	m.calls = append(m.calls, "delete:"+key)
	return m.deleteErr
}

func (m *memObjects) PublicURL(key string) string { return "https://cdn.example.com/lessor_image/" + key }
func (m *memObjects) Bucket() string              { return "lessor_image" }

type memPics map[int]string

func (m memPics) UpdateProfilePic(_ context.Context, id int, url string) error {
	if _, ok := m[id]; !ok {
		return models.ErrNoRecord
	}
	m[id] = url
	return nil
}

type memLots map[int]models.ParkingLot

func (m memLots) GetParkingLotByID(_ context.Context, id int) (models.ParkingLot, error) {
	lot, ok := m[id]
	if !ok {
		return models.ParkingLot{}, models.ErrNoRecord
	}
	return lot, nil
}

type memReservations struct {
	rows map[int]models.Reservation
}

func (m *memReservations) CreateReservation(_ context.Context, res models.Reservation) (int, error) {
	res.ID = len(m.rows) + 1
	m.rows[res.ID] = res
	return res.ID, nil
}

func (m *memReservations) GetReservationByID(_ context.Context, id int) (models.Reservation, error) {
	return m.rows[id], nil
}

func confirmationService(t *testing.T) *services.ConfirmationService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return &services.ConfirmationService{Redis: rdb, TTL: 5 * time.Minute}
}

func as(role string, id int, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), Identity{UserID: id, Role: role})))
	})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func complaintRouter(t *testing.T, repo *memComplaints) http.Handler {
	h := &ComplaintHandler{Service: &services.ComplaintService{ComplaintRepo: repo, Confirmations: confirmationService(t)}}
	mux := pat.New()
	mux.Post("/lessor/complaints", http.HandlerFunc(h.SubmitLessorComplaint))
	mux.Post("/renter/complaints", http.HandlerFunc(h.SubmitRenterComplaint))
	mux.Get("/complaints/:id", http.HandlerFunc(h.GetComplaintByID))
	mux.Put("/complaints/:id", http.HandlerFunc(h.UpdateComplaint))
	mux.Post("/complaints/:id/delete-confirmation", http.HandlerFunc(h.RequestDeleteConfirmation))
	mux.Del("/complaints/:id/delete-confirmation", http.HandlerFunc(h.DeclineDelete))
	mux.Del("/complaints/:id", http.HandlerFunc(h.DeleteComplaintByID))
	return mux
}

func TestSubmitComplaintUsesRouteRole(t *testing.T) {
	repo := &memComplaints{rows: map[int]models.Complaint{}}
	router := complaintRouter(t, repo)

	body := `{"complain":"Gate","detail":"Broken","submitter_id":9,"user_type":"admin"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/renter/complaints", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string `json:"message"`
		ID      int    `json:"id"`
	}
	decodeBody(t, rec, &resp)
	if resp.Message != "Complaint submitted successfully" || repo.rows[resp.ID].UserType != models.RoleRenter {
		t.Fatalf("unexpected response %+v, stored %+v", resp, repo.rows[resp.ID])
	}
}

func TestSubmitComplaintRequiresFields(t *testing.T) {
	repo := &memComplaints{rows: map[int]models.Complaint{}}
	router := complaintRouter(t, repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/lessor/complaints", strings.NewReader(`{"complain":"Gate"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Error != "All fields are required." || len(repo.rows) != 0 {
		t.Fatalf("unexpected error %+v (rows %d)", resp, len(repo.rows))
	}
}

func TestSubmitComplaintSubmitterFromToken(t *testing.T) {
	cases := []struct {
		name          string
		path          string
		role          string
		body          string
		want          int
		wantSubmitter int
	}{
		{"defaults from token", "/lessor/complaints", models.RoleLessor, `{"complain":"Gate","detail":"Broken"}`, http.StatusOK, 4},
		{"matching body", "/renter/complaints", models.RoleRenter, `{"complain":"Gate","detail":"Broken","submitter_id":4}`, http.StatusOK, 4},
		{"lessorId key", "/lessor/complaints", models.RoleLessor, `{"complain":"Gate","detail":"Broken","lessorId":4}`, http.StatusOK, 4},
		{"someone else", "/renter/complaints", models.RoleRenter, `{"complain":"Gate","detail":"Broken","submitter_id":9}`, http.StatusForbidden, 0},
		{"admin on behalf", "/renter/complaints", models.RoleAdmin, `{"complain":"Gate","detail":"Broken","submitter_id":9}`, http.StatusOK, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memComplaints{rows: map[int]models.Complaint{}}
			router := as(tc.role, 4, complaintRouter(t, repo))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body)))
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
			if tc.want != http.StatusOK {
				if len(repo.rows) != 0 {
					t.Fatalf("rejected submission was stored: %+v", repo.rows)
				}
				return
			}
			for _, c := range repo.rows {
				if c.SubmitterID != tc.wantSubmitter {
					t.Fatalf("expected submitter %d, got %d", tc.wantSubmitter, c.SubmitterID)
				}
			}
		})
	}
}

func TestUpdateComplaintWithoutSubmitter(t *testing.T) {
	repo := &memComplaints{rows: map[int]models.Complaint{5: {ID: 5, Complain: "Noise", Detail: "x", SubmitterID: 1, UserType: "renter", Version: 1}}}
	router := complaintRouter(t, repo)

	body := `{"complain":"Noise","detail":"y","user_type":"lessor"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/complaints/5", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := repo.rows[5]; got.Detail != "y" || got.UserType != "lessor" || got.SubmitterID != 1 {
		t.Fatalf("unexpected row %+v", got)
	}
}

func TestGetComplaintByID(t *testing.T) {
	repo := &memComplaints{rows: map[int]models.Complaint{5: {ID: 5, Complain: "Noise"}}}
	router := complaintRouter(t, repo)

	cases := []struct {
		path  string
		want  int
		reads int
	}{
		{"/complaints/abc", http.StatusBadRequest, 0},
		{"/complaints/0", http.StatusBadRequest, 0},
		{"/complaints/7", http.StatusNotFound, 1},
		{"/complaints/5", http.StatusOK, 2},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("GET %s: expected %d, got %d", tc.path, tc.want, rec.Code)
		}
		if repo.reads != tc.reads {
			t.Fatalf("GET %s: expected %d store reads, got %d", tc.path, tc.reads, repo.reads)
		}
	}
}

func TestUpdateComplaintVersionConflict(t *testing.T) {
	repo := &memComplaints{rows: map[int]models.Complaint{5: {ID: 5, Complain: "Noise", Detail: "x", SubmitterID: 1, UserType: "renter", Version: 3}}}
	router := complaintRouter(t, repo)

	body := `{"complain":"Noise","detail":"y","user_type":"renter","version":2}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/complaints/5", strings.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if repo.rows[5].Detail != "x" {
		t.Fatal("stale update was applied")
	}
}

func TestDeleteComplaintFlow(t *testing.T) {
	repo := &memComplaints{rows: map[int]models.Complaint{5: {ID: 5}}}
	router := complaintRouter(t, repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/complaints/5", nil))
	if rec.Code != http.StatusPreconditionRequired {
		t.Fatalf("expected 428 without confirmation, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/complaints/5/delete-confirmation", nil))
	var conf confirmationResponse
	decodeBody(t, rec, &conf)
	if conf.Confirm == "" || conf.ExpiresIn != 300 {
		t.Fatalf("unexpected confirmation %+v", conf)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/complaints/5/delete-confirmation?confirm="+conf.Confirm, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on decline, got %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/complaints/5?confirm="+conf.Confirm, nil))
	if rec.Code != http.StatusPreconditionRequired || len(repo.deleted) != 0 {
		t.Fatalf("declined token deleted the record (status %d)", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/complaints/5/delete-confirmation", nil))
	decodeBody(t, rec, &conf)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/complaints/5?confirm="+conf.Confirm, nil))
	if rec.Code != http.StatusNoContent || len(repo.deleted) != 1 {
		t.Fatalf("expected confirmed delete, got %d (deleted %v)", rec.Code, repo.deleted)
	}
}

func multipartBody(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if withFile {
		fw, err := mw.CreateFormFile("file", "me.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write([]byte("png"))
	}
	mw.Close()
	return buf, mw.FormDataContentType()
}

func uploadRouter(objects *memObjects, pics memPics) http.Handler {
	h := &LessorHandler{Uploads: &services.UploadService{Store: objects, Lessors: pics}}
	mux := pat.New()
	mux.Post("/lessors/:id/image", as(models.RoleLessor, 3, http.HandlerFunc(h.UploadImage)))
	return mux
}

func TestUploadImage(t *testing.T) {
	objects := &memObjects{}
	pics := memPics{3: ""}
	router := uploadRouter(objects, pics)

	body, ct := multipartBody(t, map[string]string{"oldImagePath": "old.png"}, true)
	req := httptest.NewRequest(http.MethodPost, "/lessors/3/image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res models.ImageUploadResult
	decodeBody(t, rec, &res)
	if res.LessorID != 3 || pics[3] != res.PublicURL || !strings.HasSuffix(res.PublicURL, ".png") {
		t.Fatalf("unexpected result %+v", res)
	}
	if objects.calls[0] != "delete:old.png" {
		t.Fatalf("old image not deleted first: %v", objects.calls)
	}
}

func TestUploadImageDeleteFailure(t *testing.T) {
	objects := &memObjects{deleteErr: errors.New("denied")}
	pics := memPics{3: "old-url"}
	router := uploadRouter(objects, pics)

	body, ct := multipartBody(t, map[string]string{"oldImagePath": "old.png"}, true)
	req := httptest.NewRequest(http.MethodPost, "/lessors/3/image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp errorResponse
	decodeBody(t, rec, &resp)
	if rec.Code != http.StatusInternalServerError || resp.Error != "Error deleting old image" {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
	if len(objects.calls) != 1 || pics[3] != "old-url" {
		t.Fatalf("upload continued after failed delete: calls %v url %q", objects.calls, pics[3])
	}
}

func TestUploadImageRequiresFile(t *testing.T) {
	router := uploadRouter(&memObjects{}, memPics{3: ""})

	body, ct := multipartBody(t, nil, false)
	req := httptest.NewRequest(http.MethodPost, "/lessors/3/image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp errorResponse
	decodeBody(t, rec, &resp)
	if rec.Code != http.StatusBadRequest || resp.Error != "File and lessor ID are required" {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
}

func TestUploadImageOtherLessorForbidden(t *testing.T) {
	objects := &memObjects{}
	router := uploadRouter(objects, memPics{4: ""})

	body, ct := multipartBody(t, nil, true)
	req := httptest.NewRequest(http.MethodPost, "/lessors/4/image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden || len(objects.calls) != 0 {
		t.Fatalf("expected 403 with no storage calls, got %d %v", rec.Code, objects.calls)
	}
}

func reservationRouter() (http.Handler, *memReservations) {
	repo := &memReservations{rows: map[int]models.Reservation{}}
	svc := &services.ReservationService{ReservationRepo: repo, ParkingLotRepo: memLots{3: {ID: 3, LessorID: 8, Price: "50 THB/hr"}}}
	h := &ReservationHandler{Service: svc}
	lots := &ParkingLotHandler{Service: svc}
	mux := pat.New()
	mux.Post("/reservations/quote", http.HandlerFunc(h.QuoteReservation))
	mux.Post("/reservations", as(models.RoleRenter, 7, http.HandlerFunc(h.CreateReservation)))
	mux.Get("/parking-lots/:id", http.HandlerFunc(lots.GetParkingLot))
	return mux, repo
}

const reservationBody = `{"parkingLotId":3,"userId":7,"carId":11,"reservationDate":"2024-03-01 - 2024-03-01","startTime":"10:00","endTime":"%s","price":"50 THB/hr"}`

func TestQuoteReservation(t *testing.T) {
	router, _ := reservationRouter()
	rec := httptest.NewRecorder()
	body := strings.Replace(reservationBody, "%s", "12:00", 1)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reservations/quote", strings.NewReader(body)))

	var q models.ReservationQuote
	decodeBody(t, rec, &q)
	if rec.Code != http.StatusOK || q.TotalFormatted != "100.00" || q.Hours != 2 {
		t.Fatalf("unexpected quote %d %+v", rec.Code, q)
	}
}

func TestCreateReservation(t *testing.T) {
	router, repo := reservationRouter()

	rec := httptest.NewRecorder()
	body := strings.Replace(reservationBody, "%s", "10:00", 1)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body)))
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if rec.Code != http.StatusBadRequest || !strings.HasPrefix(resp.Error, "Invalid reservation details") || len(repo.rows) != 0 {
		t.Fatalf("zero duration accepted: %d %+v", rec.Code, resp)
	}

	rec = httptest.NewRecorder()
	body = strings.Replace(reservationBody, "%s", "12:00", 1)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body)))
	var res models.Reservation
	decodeBody(t, rec, &res)
	if rec.Code != http.StatusCreated || res.TotalPrice != 100 || res.ParkingLotID != 3 {
		t.Fatalf("unexpected reservation %d %+v", rec.Code, res)
	}
}

func TestCreateReservationListsMissingFields(t *testing.T) {
	router, _ := reservationRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reservations/quote", strings.NewReader(`{}`)))

	var resp errorResponse
	decodeBody(t, rec, &resp)
	if rec.Code != http.StatusBadRequest || len(resp.Errors) != 7 {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
}

func TestGetParkingLot(t *testing.T) {
	router, _ := reservationRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/parking-lots/9", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetNav(t *testing.T) {
	h := &NavHandler{}
	rec := httptest.NewRecorder()
	h.GetNav(rec, httptest.NewRequest(http.MethodGet, "/nav?role=lessor&path=/editPark", nil))

	var entries []struct {
		Key    string `json:"key"`
		Active bool   `json:"active"`
	}
	decodeBody(t, rec, &entries)
	if len(entries) != 2 || entries[0].Active || !entries[1].Active {
		t.Fatalf("unexpected entries %+v", entries)
	}

	rec = httptest.NewRecorder()
	h.GetNav(rec, httptest.NewRequest(http.MethodGet, "/nav?role=guest", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", rec.Code)
	}
}

func TestWriteServiceErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
		msg  string
	}{
		{fmt.Errorf("delete: %w", models.ErrStillReferenced), http.StatusConflict, "Record is still in use and cannot be deleted"},
		{fmt.Errorf("insert: %w", models.ErrForeignKey), http.StatusBadRequest, "Referenced record does not exist"},
		{models.ErrNoRecord, http.StatusNotFound, "Record not found"},
		{models.ErrConfirmationRequired, http.StatusPreconditionRequired, "Delete must be confirmed"},
		{errors.New("db down"), http.StatusInternalServerError, "Failed"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeServiceError(rec, "test", tc.err, "Failed")
		if rec.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
		var resp errorResponse
		decodeBody(t, rec, &resp)
		if resp.Error != tc.msg {
			t.Fatalf("%v: expected %q, got %q", tc.err, tc.msg, resp.Error)
		}
	}
}
