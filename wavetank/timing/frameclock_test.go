package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameClock(t *testing.T) {
	c := NewFrameClock(13983, 60)
	total := 0
	for i := 0; i < 60; i++ {
		n := c.Next()
		assert.Contains(t, []int{233, 234}, n)
		total += n
	}
	assert.Equal(t, 13983, total)
	assert.Equal(t, uint64(60), c.Frame())

	even := NewFrameClock(12000, 60)
	assert.Equal(t, 200, even.Next())
	assert.Equal(t, 12000, NewFrameClock(12000, 0).Next())
}
