package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipDerivedFields(t *testing.T) {
	c := NewClip("intro", "/media/a.mp4", 10*time.Second)
	c.Start = 2 * time.Second

	assert.Equal(t, 12*time.Second, c.End())
	assert.Equal(t, 10*time.Second, c.Out-c.In)
	assert.Equal(t, c.Duration, c.Out-c.In)
	require.NoError(t, c.Validate())
}

func TestClipContains(t *testing.T) {
	c := NewClip("a", "/media/a.mp4", 4*time.Second)
	c.Start = 1 * time.Second

	assert.True(t, c.Contains(1*time.Second))
	assert.True(t, c.Contains(4999*time.Millisecond))
	assert.False(t, c.Contains(5*time.Second)) // end is exclusive
	assert.False(t, c.Contains(999*time.Millisecond))
}

func TestClipSourceOffset(t *testing.T) {
	c := NewClip("a", "/media/a.mp4", 10*time.Second)
	c.Start = 3 * time.Second
	c.In = 2 * time.Second
	c.Out = 8 * time.Second
	c.Duration = 6 * time.Second

	// playhead 1s into the clip maps to In + 1s in the source
	assert.Equal(t, 3*time.Second, c.SourceOffset(4*time.Second))
}

func TestClipValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Clip)
		want error
	}{
		{"negative start", func(c *Clip) { c.Start = -time.Second }, ErrNegativeStart},
		{"zero duration", func(c *Clip) { c.Duration = 0 }, ErrZeroDuration},
		{"out past source", func(c *Clip) { c.Out = 11 * time.Second }, ErrSourceBounds},
		{"negative in", func(c *Clip) { c.In = -time.Second }, ErrSourceBounds},
		{"trim mismatch", func(c *Clip) { c.Duration = 3 * time.Second }, ErrTrimMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClip("a", "/media/a.mp4", 10*time.Second)
			tt.mut(c)
			assert.ErrorIs(t, c.Validate(), tt.want)
		})
	}
}

func TestStillClipSkipsSourceChecks(t *testing.T) {
	c := NewStillClip("title", "", 5*time.Second)
	require.NoError(t, c.Validate())
	assert.True(t, c.Still)
	assert.Equal(t, 5*time.Second, c.Duration)
}

func TestClipClone(t *testing.T) {
	c := NewClip("a", "/media/a.mp4", 10*time.Second)
	c.Filters = []Filter{{Name: "blur", Params: map[string]string{"radius": "3"}}}

	dup := c.Clone()
	dup.Filters[0].Params["radius"] = "9"
	dup.Start = time.Minute

	assert.Equal(t, "3", c.Filters[0].Params["radius"])
	assert.Equal(t, time.Duration(0), c.Start)
}
