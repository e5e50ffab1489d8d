package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	p := New(2, 10, 25)
	assert.Equal(t, 3, p.Pages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	last := New(3, 10, 25)
	assert.False(t, last.HasNext)

	empty := New(1, 10, 0)
	assert.Equal(t, 1, empty.Pages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestNormalize(t *testing.T) {
	page, limit := Normalize(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultLimit, limit)

	_, limit = Normalize(1, 500)
	assert.Equal(t, MaxLimit, limit)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, int64(0), Offset(1, 20))
	assert.Equal(t, int64(40), Offset(3, 20))
	assert.Equal(t, int64(0), Offset(-1, 20))
}
