package handler

import (
	"net/url"
	"strconv"
)

// readIntent is the tagged shape of a GET request, resolved once at the
// boundary instead of re-checking query fields inside each branch.
type readIntent int

const (
	intentListAll readIntent = iota
	intentByID
	intentPaginated
	intentByStudent
)

type readRequest struct {
	intent    readIntent
	id        string
	studentID string
	page      int
	limit     int
}

// resolveReadIntent maps the query string onto a read intent. Precedence
// follows the legacy contract: id wins, then student_id, then a page+limit
// pair; anything else is the full list.
func resolveReadIntent(query url.Values) readRequest {
	if id := query.Get("id"); id != "" {
		return readRequest{intent: intentByID, id: id}
	}
	if studentID := query.Get("student_id"); studentID != "" {
		return readRequest{intent: intentByStudent, studentID: studentID}
	}
	if query.Has("page") && query.Has("limit") {
		page, _ := strconv.Atoi(query.Get("page"))
		limit, _ := strconv.Atoi(query.Get("limit"))
		return readRequest{intent: intentPaginated, page: page, limit: limit}
	}
	return readRequest{intent: intentListAll}
}

// deleteRequest is the body shape shared by all delete endpoints.
type deleteRequest struct {
	ID string `json:"id"`
}
