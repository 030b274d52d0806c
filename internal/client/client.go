// Package client is a typed HTTP client for the parkify API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ChanaPCN/parkify-app/internal/models"
	"github.com/ChanaPCN/parkify-app/internal/nav"
)

// APIError is a non-2xx response. Message is the server's "error" field.
type APIError struct {
	StatusCode int
	Message    string
	Messages   []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// NotFound reports whether the resource does not exist or the id was rejected.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusBadRequest
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type request struct {
	method  string
	path    string
	body    io.Reader
	ctype   string
	idemKey string
}

func (c *Client) jsonRequest(method, path string, v interface{}) (request, error) {
	req := request{method: method, path: path}
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			return request{}, fmt.Errorf("encode request: %w", err)
		}
		req.body = bytes.NewReader(data)
		req.ctype = "application/json"
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, r.method, c.BaseURL+r.path, r.body)
	if err != nil {
		return err
	}
	if r.ctype != "" {
		httpReq.Header.Set("Content-Type", r.ctype)
	}
	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if r.idemKey != "" {
		httpReq.Header.Set("Idempotency-Key", r.idemKey)
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error  string   `json:"error"`
			Errors []string `json:"errors"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Error == "" {
			body.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: body.Error, Messages: body.Errors}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, in, out interface{}) error {
	req, err := c.jsonRequest(method, path, in)
	if err != nil {
		return err
	}
	return c.do(ctx, req, out)
}

type confirmation struct {
	Confirm string `json:"confirm"`
}

func (c *Client) requestDelete(ctx context.Context, path string) (string, error) {
	var conf confirmation
	if err := c.call(ctx, http.MethodPost, path+"/delete-confirmation", nil, &conf); err != nil {
		return "", err
	}
	return conf.Confirm, nil
}

func (c *Client) declineDelete(ctx context.Context, path, token string) error {
	return c.call(ctx, http.MethodDelete, path+"/delete-confirmation?confirm="+url.QueryEscape(token), nil, nil)
}

func (c *Client) confirmDelete(ctx context.Context, path, token string) error {
	return c.call(ctx, http.MethodDelete, path+"?confirm="+url.QueryEscape(token), nil, nil)
}

func complaintPath(id int) string { return "/complaints/" + strconv.Itoa(id) }
func lessorPath(id int) string    { return "/lessors/" + strconv.Itoa(id) }

// SubmitComplaint posts to the role's complaint endpoint and returns the new id.
func (c *Client) SubmitComplaint(ctx context.Context, role string, sub models.ComplaintSubmission) (int, error) {
	var resp struct {
		ID int `json:"id"`
	}
	if err := c.call(ctx, http.MethodPost, "/"+role+"/complaints", sub, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *Client) GetComplaint(ctx context.Context, id int) (models.Complaint, error) {
	var out models.Complaint
	err := c.call(ctx, http.MethodGet, complaintPath(id), nil, &out)
	return out, err
}

func (c *Client) UpdateComplaint(ctx context.Context, id int, u models.ComplaintUpdate) (models.Complaint, error) {
	var out models.Complaint
	err := c.call(ctx, http.MethodPut, complaintPath(id), u, &out)
	return out, err
}

func (c *Client) RequestComplaintDelete(ctx context.Context, id int) (string, error) {
	return c.requestDelete(ctx, complaintPath(id))
}

func (c *Client) DeclineComplaintDelete(ctx context.Context, id int, token string) error {
	return c.declineDelete(ctx, complaintPath(id), token)
}

func (c *Client) DeleteComplaint(ctx context.Context, id int, token string) error {
	return c.confirmDelete(ctx, complaintPath(id), token)
}

func (c *Client) GetLessor(ctx context.Context, id int) (models.Lessor, error) {
	var out models.Lessor
	err := c.call(ctx, http.MethodGet, lessorPath(id), nil, &out)
	return out, err
}

func (c *Client) UpdateLessor(ctx context.Context, id int, u models.LessorUpdate) (models.Lessor, error) {
	var out models.Lessor
	err := c.call(ctx, http.MethodPut, lessorPath(id), u, &out)
	return out, err
}

func (c *Client) RequestLessorDelete(ctx context.Context, id int) (string, error) {
	return c.requestDelete(ctx, lessorPath(id))
}

func (c *Client) DeclineLessorDelete(ctx context.Context, id int, token string) error {
	return c.declineDelete(ctx, lessorPath(id), token)
}

func (c *Client) DeleteLessor(ctx context.Context, id int, token string) error {
	return c.confirmDelete(ctx, lessorPath(id), token)
}

// UploadLessorImage sends the multipart form of the profile image endpoint.
func (c *Client) UploadLessorImage(ctx context.Context, lessorID int, oldImagePath, filename string, file io.Reader, idemKey string) (models.ImageUploadResult, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if oldImagePath != "" {
		if err := mw.WriteField("oldImagePath", oldImagePath); err != nil {
			return models.ImageUploadResult{}, err
		}
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return models.ImageUploadResult{}, err
	}
	if _, err := io.Copy(fw, file); err != nil {
		return models.ImageUploadResult{}, err
	}
	if err := mw.Close(); err != nil {
		return models.ImageUploadResult{}, err
	}

	var out models.ImageUploadResult
	err = c.do(ctx, request{
		method:  http.MethodPost,
		path:    lessorPath(lessorID) + "/image",
		body:    buf,
		ctype:   mw.FormDataContentType(),
		idemKey: idemKey,
	}, &out)
	return out, err
}

func (c *Client) GetParkingLot(ctx context.Context, id int) (models.ParkingLot, error) {
	var out models.ParkingLot
	err := c.call(ctx, http.MethodGet, "/parking-lots/"+strconv.Itoa(id), nil, &out)
	return out, err
}

func (c *Client) QuoteReservation(ctx context.Context, req models.ReservationRequest) (models.ReservationQuote, error) {
	var out models.ReservationQuote
	err := c.call(ctx, http.MethodPost, "/reservations/quote", req, &out)
	return out, err
}

func (c *Client) CreateReservation(ctx context.Context, idemKey string, req models.ReservationRequest) (models.Reservation, error) {
	r, err := c.jsonRequest(http.MethodPost, "/reservations", req)
	if err != nil {
		return models.Reservation{}, err
	}
	r.idemKey = idemKey
	var out models.Reservation
	err = c.do(ctx, r, &out)
	return out, err
}

func (c *Client) Nav(ctx context.Context, role, path string) ([]nav.Entry, error) {
	q := url.Values{"role": {role}, "path": {path}}
	var out []nav.Entry
	err := c.call(ctx, http.MethodGet, "/nav?"+q.Encode(), nil, &out)
	return out, err
}
