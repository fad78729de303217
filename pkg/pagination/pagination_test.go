package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 15, 31)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = NewPagination(1, 15, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}

func TestPaginationParams_Validate(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: 500}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PerPage)

	p = &PaginationParams{Page: 3, PerPage: 0}
	p.Validate()
	assert.Equal(t, 15, p.PerPage)
	assert.Equal(t, 30, p.Offset())
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	params := &CursorParams{Cursor: EncodeCursor("abc", at)}

	c, err := params.DecodeCursor()
	require.NoError(t, err)
	assert.Equal(t, "abc", c.ID)
	assert.True(t, at.Equal(c.CreatedAt))

	_, err = (&CursorParams{Cursor: "%%%"}).DecodeCursor()
	assert.Error(t, err)

	c, err = (&CursorParams{}).DecodeCursor()
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewCursorPagination(t *testing.T) {
	type row struct {
		id string
		at time.Time
	}
	now := time.Now()
	rows := []row{{"a", now}, {"b", now}, {"c", now}}
	getID := func(r row) string { return r.id }
	getAt := func(r row) time.Time { return r.at }

	p, items := NewCursorPagination(rows, 2, getID, getAt)
	assert.Len(t, items, 2)
	assert.True(t, p.HasNext)
	require.NotNil(t, p.NextCursor)
	assert.Equal(t, EncodeCursor("b", now), *p.NextCursor)

	p, items = NewCursorPagination(rows[:1], 2, getID, getAt)
	assert.Len(t, items, 1)
	assert.False(t, p.HasNext)

	p, _ = NewCursorPagination([]row{}, 2, getID, getAt)
	assert.Nil(t, p.NextCursor)
}

func TestNewPaginatedResult_NilItems(t *testing.T) {
	r := NewPaginatedResult[int](nil, NewPagination(1, 15, 0))
	assert.NotNil(t, r.Items)
	assert.Empty(t, r.Items)
}
