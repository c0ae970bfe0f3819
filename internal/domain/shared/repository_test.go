package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFilterOffset(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		paged  bool
		offset int
	}{
		{"unpaged", Filter{}, false, 0},
		{"first page", Filter{Page: 1, PageSize: 20}, true, 0},
		{"third page", Filter{Page: 3, PageSize: 20}, true, 40},
		{"page below one", Filter{Page: -2, PageSize: 10}, true, 0},
		{"page without size", Filter{Page: 4}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.paged, tt.filter.Paged())
			assert.Equal(t, tt.offset, tt.filter.Offset())
		})
	}
}

func TestNewBaseEntityAt(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	e := NewBaseEntityAt(at)

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, at, e.CreatedAt)
	assert.Equal(t, at, e.UpdatedAt)

	e.Touch(at.Add(time.Hour))
	assert.Equal(t, at, e.CreatedAt)
	assert.Equal(t, at.Add(time.Hour), e.UpdatedAt)
}
