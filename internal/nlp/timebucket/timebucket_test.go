package timebucket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(h, m, s int) time.Time {
	return time.Date(2027, 9, 30, h, m, s, 0, time.UTC)
}

func TestSnapFloors(t *testing.T) {
	tests := []struct {
		in      time.Time
		minutes int
		want    time.Time
	}{
		{at(10, 14, 59), 15, at(10, 0, 0)},
		{at(10, 15, 0), 15, at(10, 15, 0)},
		{at(10, 29, 0), 15, at(10, 15, 0)},
		{at(23, 59, 0), 15, at(23, 45, 0)},
		{at(0, 7, 0), 30, at(0, 0, 0)},
		// One-minute windows only truncate seconds.
		{at(10, 17, 42), 1, at(10, 17, 0)},
		{at(10, 17, 42), 0, at(10, 17, 0)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Snap(tt.in, tt.minutes), "in=%v minutes=%d", tt.in, tt.minutes)
	}
}

func TestPrevNext(t *testing.T) {
	assert.Equal(t, at(9, 45, 0), Prev(at(10, 5, 0), 15))
	assert.Equal(t, at(10, 15, 0), Next(at(10, 5, 0), 15))
	// Window boundaries cross midnight without special casing.
	assert.Equal(t, time.Date(2027, 9, 29, 23, 45, 0, 0, time.UTC), Prev(at(0, 5, 0), 15))
}

func TestTTL(t *testing.T) {
	assert.Equal(t, 15*time.Minute, TTL(15))
	assert.Equal(t, time.Minute, TTL(0))
}
