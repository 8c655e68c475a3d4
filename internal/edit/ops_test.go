package edit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keagan/reelcut/internal/timeline"
)

func videoSource(name string, dur time.Duration) Source {
	return Source{Name: name, Path: "/media/" + name + ".mp4", Duration: dur}
}

// adjacentPair builds a track with two back-to-back clips, each fully
// trimmed to its source.
func adjacentPair(leftDur, leftSourceDur, rightDur time.Duration) (*timeline.Track, *timeline.Clip, *timeline.Clip) {
	track := timeline.NewTrack(timeline.Video, "V1")

	left := timeline.NewClip("left", "/media/left.mp4", leftSourceDur)
	left.Duration = leftDur
	left.Out = leftDur

	right := timeline.NewClip("right", "/media/right.mp4", rightDur+2*time.Second)
	right.Start = left.End()
	right.Duration = rightDur
	right.In = 2 * time.Second
	right.Out = right.In + rightDur

	track.Insert(left)
	track.Insert(right)
	return track, left, right
}

func TestAppendThreeClips(t *testing.T) {
	track := timeline.NewTrack(timeline.Video, "V1")

	for i := 0; i < 3; i++ {
		_, err := Append(track, videoSource("clip", 5*time.Second))
		require.NoError(t, err)
	}

	require.Len(t, track.Clips, 3)
	assert.Equal(t, time.Duration(0), track.Clips[0].Start)
	assert.Equal(t, 5*time.Second, track.Clips[1].Start)
	assert.Equal(t, 10*time.Second, track.Clips[2].Start)
	assert.Equal(t, 15*time.Second, track.End())
	assert.Empty(t, track.Overlapping())
}

func TestAppendStillUsesDefaultDuration(t *testing.T) {
	track := timeline.NewTrack(timeline.Video, "V1")

	c, err := Append(track, Source{Name: "photo", Path: "/media/photo.png"})
	require.NoError(t, err)
	assert.True(t, c.Still)
	assert.Equal(t, DefaultStillDuration, c.Duration)
}

func TestAppendStillDurationOverride(t *testing.T) {
	track := timeline.NewTrack(timeline.Video, "V1")

	c, err := Append(track, Source{Name: "photo", Path: "/media/photo.png", StillDuration: 8 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, 8*time.Second, c.Duration)
}

func TestAppendCoversWholeSource(t *testing.T) {
	track := timeline.NewTrack(timeline.Video, "V1")

	c, err := Append(track, videoSource("a", 7*time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), c.In)
	assert.Equal(t, 7*time.Second, c.Out)
	assert.Equal(t, 7*time.Second, c.SourceDuration)
}

func TestInsertAtPlayheadCreatesTrack(t *testing.T) {
	m := timeline.NewModel(30)

	c, err := InsertAtPlayhead(m, videoSource("a", 5*time.Second), 3*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, c.Start)

	track := m.FirstTrack(timeline.Video)
	require.NotNil(t, track)
	assert.Equal(t, "Video 1", track.Name)
}

func TestInsertAtPlayheadInfersAudioKind(t *testing.T) {
	m := timeline.NewModel(30)

	_, err := InsertAtPlayhead(m, Source{Name: "song", Path: "/media/song.mp3", Duration: 30 * time.Second}, 0)
	require.NoError(t, err)
	assert.Nil(t, m.FirstTrack(timeline.Video))
	assert.NotNil(t, m.FirstTrack(timeline.Audio))
}

func TestInsertAtPlayheadAllowsOverlap(t *testing.T) {
	m := timeline.NewModel(30)
	track := m.AddTrack(timeline.Video, "V1")
	_, err := Append(track, videoSource("a", 10*time.Second))
	require.NoError(t, err)

	_, err = InsertAtPlayhead(m, videoSource("b", 5*time.Second), 4*time.Second)
	require.NoError(t, err)
	assert.Len(t, track.Overlapping(), 1)
}

func TestRollingEditMovesSharedPoint(t *testing.T) {
	_, left, right := adjacentPair(5*time.Second, 8*time.Second, 5*time.Second)
	total := left.Duration + right.Duration

	require.NoError(t, RollingEdit(left, right, 2*time.Second))

	assert.Equal(t, 7*time.Second, left.Duration)
	assert.Equal(t, 7*time.Second, left.Out)
	assert.Equal(t, 7*time.Second, right.Start)
	assert.Equal(t, 3*time.Second, right.Duration)
	assert.Equal(t, 4*time.Second, right.In)

	// zero sum: total covered duration is invariant
	assert.Equal(t, total, left.Duration+right.Duration)
	// clips stay back to back
	assert.Equal(t, left.End(), right.Start)
	require.NoError(t, left.Validate())
	require.NoError(t, right.Validate())
}

func TestRollingEditNegativeShift(t *testing.T) {
	_, left, right := adjacentPair(5*time.Second, 8*time.Second, 5*time.Second)

	require.NoError(t, RollingEdit(left, right, -2*time.Second))
	assert.Equal(t, 3*time.Second, left.Duration)
	assert.Equal(t, 7*time.Second, right.Duration)
	assert.Equal(t, left.End(), right.Start)
}

func TestRollingEditInsufficientSource(t *testing.T) {
	// left clip is fully trimmed to its source: no media past its out point
	_, left, right := adjacentPair(5*time.Second, 5*time.Second, 5*time.Second)
	leftBefore, rightBefore := *left, *right

	err := RollingEdit(left, right, 2*time.Second)
	assert.ErrorIs(t, err, timeline.ErrInsufficientSource)

	// no partial mutation
	assert.Equal(t, leftBefore, *left)
	assert.Equal(t, rightBefore, *right)
}

func TestRollingEditShrinkToZero(t *testing.T) {
	_, left, right := adjacentPair(5*time.Second, 20*time.Second, 5*time.Second)

	err := RollingEdit(left, right, 5*time.Second)
	assert.ErrorIs(t, err, timeline.ErrZeroDuration)
}

func TestRollingEditRequiresAdjacency(t *testing.T) {
	track := timeline.NewTrack(timeline.Video, "V1")
	a, err := Append(track, videoSource("a", 5*time.Second))
	require.NoError(t, err)
	b, err := Append(track, videoSource("b", 5*time.Second))
	require.NoError(t, err)
	require.NoError(t, Move(track, b, 20*time.Second))

	assert.ErrorIs(t, RollingEdit(a, b, time.Second), timeline.ErrNotAdjacent)
}

func TestSlipEditMovesSourceWindowOnly(t *testing.T) {
	c := timeline.NewClip("a", "/media/a.mp4", 10*time.Second)
	c.Start = 2 * time.Second
	c.Duration = 4 * time.Second
	c.In = time.Second
	c.Out = 5 * time.Second

	require.NoError(t, SlipEdit(c, 2*time.Second))

	assert.Equal(t, 2*time.Second, c.Start)
	assert.Equal(t, 4*time.Second, c.Duration)
	assert.Equal(t, 3*time.Second, c.In)
	assert.Equal(t, 7*time.Second, c.Out)
	require.NoError(t, c.Validate())
}

func TestSlipEditBounds(t *testing.T) {
	c := timeline.NewClip("a", "/media/a.mp4", 10*time.Second)
	c.Duration = 4 * time.Second
	c.In = time.Second
	c.Out = 5 * time.Second
	before := *c

	assert.ErrorIs(t, SlipEdit(c, 6*time.Second), timeline.ErrInsufficientSource)
	assert.ErrorIs(t, SlipEdit(c, -2*time.Second), timeline.ErrInsufficientSource)
	assert.Equal(t, before, *c)
}

func TestSlipEditRejectsStill(t *testing.T) {
	c := timeline.NewStillClip("title", "", 5*time.Second)
	assert.ErrorIs(t, SlipEdit(c, time.Second), timeline.ErrStillClip)
}

func TestSlideEditBothNeighbors(t *testing.T) {
	track := timeline.NewTrack(timeline.Video, "V1")

	mk := func(name string, start time.Duration) *timeline.Clip {
		c := timeline.NewClip(name, "/media/"+name+".mp4", 12*time.Second)
		c.Start = start
		c.Duration = 4 * time.Second
		c.In = 2 * time.Second
		c.Out = 6 * time.Second
		track.Insert(c)
		return c
	}
	a := mk("a", 0)
	b := mk("b", 4*time.Second)
	c := mk("c", 8*time.Second)

	require.NoError(t, SlideEdit(track, b, time.Second))

	// b keeps its trim and duration, only moves
	assert.Equal(t, 5*time.Second, b.Start)
	assert.Equal(t, 4*time.Second, b.Duration)
	assert.Equal(t, 2*time.Second, b.In)

	// left neighbor extended to meet it, right neighbor trimmed from its head
	assert.Equal(t, 5*time.Second, a.Duration)
	assert.Equal(t, 7*time.Second, a.Out)
	assert.Equal(t, 9*time.Second, c.Start)
	assert.Equal(t, 3*time.Second, c.In)
	assert.Equal(t, 3*time.Second, c.Duration)

	// the three clips stay contiguous
	assert.Equal(t, a.End(), b.Start)
	assert.Equal(t, b.End(), c.Start)
	for _, cc := range []*timeline.Clip{a, b, c} {
		require.NoError(t, cc.Validate())
	}
}

func TestSlideEditSingleNeighbor(t *testing.T) {
	track := timeline.NewTrack(timeline.Video, "V1")
	a := timeline.NewClip("a", "/media/a.mp4", 12*time.Second)
	a.Duration = 4 * time.Second
	a.Out = 4 * time.Second
	track.Insert(a)
	b := timeline.NewClip("b", "/media/b.mp4", 12*time.Second)
	b.Start = 4 * time.Second
	b.Duration = 4 * time.Second
	b.Out = 4 * time.Second
	track.Insert(b)

	require.NoError(t, SlideEdit(track, b, 2*time.Second))
	assert.Equal(t, 6*time.Second, b.Start)
	assert.Equal(t, 6*time.Second, a.Duration)
	assert.Equal(t, a.End(), b.Start)
}

func TestSlideEditRequiresNeighbor(t *testing.T) {
	track := timeline.NewTrack(timeline.Video, "V1")
	a, err := Append(track, videoSource("a", 5*time.Second))
	require.NoError(t, err)

	assert.ErrorIs(t, SlideEdit(track, a, time.Second), timeline.ErrNoNeighbor)
}

func TestSlideEditRespectsNeighborBounds(t *testing.T) {
	track := timeline.NewTrack(timeline.Video, "V1")
	// left neighbor has no spare media past its out point
	a, err := Append(track, videoSource("a", 4*time.Second))
	require.NoError(t, err)
	b, err := Append(track, videoSource("b", 4*time.Second))
	require.NoError(t, err)
	aBefore, bBefore := *a, *b

	assert.ErrorIs(t, SlideEdit(track, b, time.Second), timeline.ErrInsufficientSource)
	assert.Equal(t, aBefore, *a)
	assert.Equal(t, bBefore, *b)
}

func TestDeleteLeavesGap(t *testing.T) {
	track := timeline.NewTrack(timeline.Video, "V1")
	a, _ := Append(track, videoSource("a", 5*time.Second))
	b, _ := Append(track, videoSource("b", 5*time.Second))
	c, _ := Append(track, videoSource("c", 5*time.Second))

	require.NoError(t, Delete(track, b))
	require.Len(t, track.Clips, 2)
	// neighbors are not adjusted
	assert.Equal(t, time.Duration(0), a.Start)
	assert.Equal(t, 10*time.Second, c.Start)
}

func TestMoveResorts(t *testing.T) {
	track := timeline.NewTrack(timeline.Video, "V1")
	a, _ := Append(track, videoSource("a", 5*time.Second))
	b, _ := Append(track, videoSource("b", 5*time.Second))

	require.NoError(t, Move(track, a, 20*time.Second))
	assert.Same(t, b, track.Clips[0])
	assert.Same(t, a, track.Clips[1])

	assert.ErrorIs(t, Move(track, a, -time.Second), timeline.ErrNegativeStart)
}

func TestSourceKindFromExtension(t *testing.T) {
	assert.Equal(t, timeline.Audio, Source{Path: "x.MP3"}.Kind())
	assert.Equal(t, timeline.Audio, Source{Path: "x.flac"}.Kind())
	assert.Equal(t, timeline.Video, Source{Path: "x.mp4"}.Kind())
	assert.Equal(t, timeline.Audio, Source{Path: "x.mp4", AudioOnly: true}.Kind())
}
