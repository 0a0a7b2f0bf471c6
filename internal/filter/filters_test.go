package filter

import (
	"testing"

	"github.com/siahsang/postfeed/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginator_RejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := NewPaginator(size)
		require.ErrorIs(t, err, ErrInvalidPageSize)
	}
}

func TestWindow_PageSizes(t *testing.T) {
	p, err := NewPaginator(10)
	require.NoError(t, err)

	cases := []struct {
		name      string
		total     int64
		page      int
		wantItems int
		wantPages int
	}{
		{name: "first page of thirteen", total: 13, page: 1, wantItems: 10, wantPages: 2},
		{name: "last page of thirteen", total: 13, page: 2, wantItems: 3, wantPages: 2},
		{name: "last page of exact multiple", total: 20, page: 2, wantItems: 10, wantPages: 2},
		{name: "fewer than one page", total: 4, page: 1, wantItems: 4, wantPages: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := p.Window(tc.total, tc.page)
			assert.Equal(t, tc.wantItems, m.ItemCount())
			assert.Equal(t, tc.wantPages, m.TotalPages)
		})
	}
}

func TestWindow_ClampsOutOfRangePages(t *testing.T) {
	p, err := NewPaginator(10)
	require.NoError(t, err)

	beyond := p.Window(25, 99)
	assert.Equal(t, 3, beyond.CurrentPage)
	assert.Equal(t, 20, beyond.Offset())
	assert.Equal(t, 5, beyond.ItemCount())
	assert.False(t, beyond.HasNext)
	assert.True(t, beyond.HasPrevious)

	below := p.Window(25, -4)
	assert.Equal(t, 1, below.CurrentPage)
	assert.Equal(t, 0, below.Offset())
	assert.True(t, below.HasNext)
	assert.False(t, below.HasPrevious)
}

func TestWindow_EmptySequence(t *testing.T) {
	p, err := NewPaginator(10)
	require.NoError(t, err)

	m := p.Window(0, 3)
	assert.Equal(t, 1, m.CurrentPage)
	assert.Equal(t, 1, m.TotalPages)
	assert.Equal(t, 0, m.ItemCount())
	assert.False(t, m.HasNext)
	assert.False(t, m.HasPrevious)
}

func TestValidatePage(t *testing.T) {
	v := validator.New()
	ValidatePage(v, 2)
	assert.True(t, v.IsValid())

	ValidatePage(v, MaxPage+1)
	assert.Contains(t, v.Errors, "page")
}
