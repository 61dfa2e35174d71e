package posts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageWindow(t *testing.T) {
	offset, err := pageWindow(1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, offset)

	offset, err = pageWindow(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, offset)

	offset, err = pageWindow(2, MaxPageSize)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, offset)

	_, err = pageWindow(0, 10)
	assert.True(t, IsValidationError(err))

	_, err = pageWindow(1, MaxPageSize+1)
	assert.True(t, IsValidationError(err))

	_, err = pageWindow(math.MaxInt, 10)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "page", valErr.Field)

	offset, err = pageWindow(math.MaxInt/10, 10)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, offset, 0)

	offset, err = pageWindow(math.MaxInt, 1)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt-1, offset)
}

func TestBuildFeedPage(t *testing.T) {
	tests := []struct {
		name           string
		page, limit    int
		total          int
		wantTotalPages int
		wantHasMore    bool
	}{
		{name: "first of three", page: 1, limit: 2, total: 5, wantTotalPages: 3, wantHasMore: true},
		{name: "last partial page", page: 3, limit: 2, total: 5, wantTotalPages: 3, wantHasMore: false},
		{name: "exact fit", page: 2, limit: 5, total: 10, wantTotalPages: 2, wantHasMore: false},
		{name: "past the end", page: 9, limit: 10, total: 3, wantTotalPages: 1, wantHasMore: false},
		{name: "empty", page: 1, limit: 10, total: 0, wantTotalPages: 0, wantHasMore: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := buildFeedPage(nil, tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.page, fp.CurrentPage)
			assert.Equal(t, tt.total, fp.TotalCount)
			assert.Equal(t, tt.wantTotalPages, fp.TotalPages)
			assert.Equal(t, tt.wantHasMore, fp.HasMore)
			assert.NotNil(t, fp.Items)
		})
	}
}
