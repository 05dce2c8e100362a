// Package client is a typed consumer of the record endpoints: one
// RecordAPI per entity resource, mirroring the reads and writes the
// browser data layer performs, plus an advisory Snapshot for optimistic
// duplicate checks. The snapshot is a convenience mirror of the server
// validation, never a substitute for it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// APIError is a non-2xx response decoded from the flat error body.
type APIError struct {
	Status  int
	Message string
	Type    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// CreateResult is the body of a successful create.
type CreateResult struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// RecordAPI talks to a single entity resource URL.
type RecordAPI struct {
	baseURL string
	pageKey string
	httpc   *http.Client
}

// New builds a RecordAPI for one entity. baseURL is the full resource URL
// (e.g. http://host/api/v1/students); pageKey is the entity key of the
// paginated body.
func New(baseURL, pageKey string, httpc *http.Client) *RecordAPI {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &RecordAPI{baseURL: strings.TrimRight(baseURL, "/"), pageKey: pageKey, httpc: httpc}
}

// FetchAll loads the unpaginated full list into dest.
func (a *RecordAPI) FetchAll(ctx context.Context, dest interface{}) error {
	return a.get(ctx, a.baseURL, dest)
}

// FetchByID loads a single record into dest. A JSON null leaves dest
// untouched and reports found=false.
func (a *RecordAPI) FetchByID(ctx context.Context, id string, dest interface{}) (bool, error) {
	raw := json.RawMessage{}
	if err := a.get(ctx, fmt.Sprintf("%s?id=%s", a.baseURL, id), &raw); err != nil {
		return false, err
	}
	if string(bytes.TrimSpace(raw)) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode record: %w", err)
	}
	return true, nil
}

// FetchPaginated loads one page into items and returns the unfiltered
// total.
func (a *RecordAPI) FetchPaginated(ctx context.Context, page, limit int, items interface{}) (int, error) {
	url := fmt.Sprintf("%s?page=%d&limit=%d", a.baseURL, page, limit)
	var body map[string]json.RawMessage
	if err := a.get(ctx, url, &body); err != nil {
		return 0, err
	}
	if raw, ok := body[a.pageKey]; ok {
		if err := json.Unmarshal(raw, items); err != nil {
			return 0, fmt.Errorf("decode %s page: %w", a.pageKey, err)
		}
	}
	var total int
	if raw, ok := body["total"]; ok {
		if err := json.Unmarshal(raw, &total); err != nil {
			return 0, fmt.Errorf("decode total: %w", err)
		}
	}
	return total, nil
}

// Create posts a new record and returns the server-assigned id.
func (a *RecordAPI) Create(ctx context.Context, payload interface{}) (*CreateResult, error) {
	var result CreateResult
	if err := a.send(ctx, http.MethodPost, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Update puts the full record, id included in the payload.
func (a *RecordAPI) Update(ctx context.Context, payload interface{}) error {
	return a.send(ctx, http.MethodPut, payload, nil)
}

// Remove deletes by id.
func (a *RecordAPI) Remove(ctx context.Context, id string) error {
	return a.send(ctx, http.MethodDelete, map[string]string{"id": id}, nil)
}

func (a *RecordAPI) get(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	res, err := a.httpc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close() //nolint:errcheck
	if res.StatusCode >= 300 {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(dest)
}

func (a *RecordAPI) send(ctx context.Context, method string, payload interface{}, dest interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := a.httpc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close() //nolint:errcheck
	if res.StatusCode >= 300 {
		return decodeAPIError(res)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	return json.NewDecoder(res.Body).Decode(dest)
}

func decodeAPIError(res *http.Response) error {
	apiErr := &APIError{Status: res.StatusCode}
	var body struct {
		Error string `json:"error"`
		Type  string `json:"type"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
		apiErr.Type = body.Type
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(res.StatusCode)
	}
	return apiErr
}

// Snapshot holds a full-list mirror for optimistic duplicate checks.
type Snapshot struct {
	mu      sync.RWMutex
	records []map[string]interface{}
}

// Refresh replaces the snapshot with the server's current full list.
func (s *Snapshot) Refresh(ctx context.Context, api *RecordAPI) error {
	var records []map[string]interface{}
	if err := api.FetchAll(ctx, &records); err != nil {
		return err
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

// HasDuplicate reports whether another record (id differing from
// excludeID) carries the same value in field, compared case-insensitively.
// Advisory only: the server re-checks on every write.
func (s *Snapshot) HasDuplicate(field, value, excludeID string) bool {
	want := strings.ToLower(strings.TrimSpace(value))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.records {
		got, ok := record[field].(string)
		if !ok {
			continue
		}
		if strings.ToLower(strings.TrimSpace(got)) != want {
			continue
		}
		if id, ok := record["id"].(string); ok && id == excludeID {
			continue
		}
		return true
	}
	return false
}

// Len returns the number of mirrored records.
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
