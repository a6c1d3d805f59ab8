package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"school-attendance-api/internal/models"
)

// HTTPStore implements Store against a central server's sync API.
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPStore returns a client for the sync API rooted at baseURL.
// The token is sent as a bearer credential on every request.
func NewHTTPStore(baseURL, token string, timeout time.Duration) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

type rosterResponse struct {
	Students []models.Student `json:"students"`
}

type todayResponse struct {
	Date       string   `json:"date"`
	StudentIDs []string `json:"studentIds"`
}

func (s *HTTPStore) FetchRoster(ctx context.Context) ([]models.Student, error) {
	var out rosterResponse
	if _, err := s.do(ctx, http.MethodGet, "/api/sync/roster", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Students, nil
}

func (s *HTTPStore) FetchTodayConfirmedIDs(ctx context.Context, date string) ([]string, error) {
	var out todayResponse
	path := "/api/sync/attendance/today?date=" + url.QueryEscape(date)
	if _, err := s.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.StudentIDs, nil
}

func (s *HTTPStore) FetchConfig(ctx context.Context) (models.Settings, error) {
	var out models.Settings
	if _, err := s.do(ctx, http.MethodGet, "/api/sync/config", nil, &out, http.StatusOK); err != nil {
		return models.Settings{}, err
	}
	return out, nil
}

func (s *HTTPStore) InsertAttendance(ctx context.Context, row Row) error {
	if err := row.Validate(); err != nil {
		return fmt.Errorf("invalid attendance row: %w", err)
	}
	status, err := s.do(ctx, http.MethodPost, "/api/sync/attendance", row, nil, http.StatusCreated, http.StatusConflict)
	if err != nil {
		return err
	}
	if status == http.StatusConflict {
		return ErrDuplicateKey
	}
	return nil
}

// do performs one request and decodes the body into out when the status is
// one of accepted. Any other status is returned as an error.
func (s *HTTPStore) do(ctx context.Context, method, path string, body, out any, accepted ...int) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	ok := false
	for _, code := range accepted {
		if resp.StatusCode == code {
			ok = true
			break
		}
	}
	if !ok {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out != nil && resp.StatusCode/100 == 2 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%s %s: decode: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

var _ Store = (*HTTPStore)(nil)
