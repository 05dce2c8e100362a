package handler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveReadIntent(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  readIntent
	}{
		{"bare", "", intentListAll},
		{"by id", "id=s1", intentByID},
		{"by student", "student_id=s1", intentByStudent},
		{"id wins over student", "id=e1&student_id=s1", intentByID},
		{"paginated", "page=2&limit=10", intentPaginated},
		{"page without limit", "page=2", intentListAll},
		{"limit without page", "limit=10", intentListAll},
		{"empty id falls through", "id=&page=1&limit=5", intentPaginated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := url.ParseQuery(tc.query)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, resolveReadIntent(query).intent)
		})
	}
}

func TestResolveReadIntentCarriesValues(t *testing.T) {
	query, _ := url.ParseQuery("page=3&limit=25")
	req := resolveReadIntent(query)
	assert.Equal(t, 3, req.page)
	assert.Equal(t, 25, req.limit)

	query, _ = url.ParseQuery("student_id=s9")
	assert.Equal(t, "s9", resolveReadIntent(query).studentID)
}
