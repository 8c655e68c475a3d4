package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keagan/reelcut/internal/timeline"
)

// writeSource drops a placeholder media file so load does not skip it.
func writeSource(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("media"), 0644))
	return path
}

func sampleModel(t *testing.T, dir string) *timeline.Model {
	t.Helper()
	m := timeline.NewModel(25)
	v := m.AddTrack(timeline.Video, "V1")
	v.Muted = true
	a := m.AddTrack(timeline.Audio, "A1")
	a.Locked = true

	c := timeline.NewClip("intro", writeSource(t, dir, "intro.mp4"), 10*time.Second)
	c.Duration = 6 * time.Second
	c.In = 2 * time.Second
	c.Out = 8 * time.Second
	c.Gain = 0.8
	c.Filters = []timeline.Filter{{Name: "fade", Params: map[string]string{"len": "1"}}}
	v.Insert(c)

	song := timeline.NewClip("song", writeSource(t, dir, "song.mp3"), 30*time.Second)
	song.AudioOnly = true
	a.Insert(song)

	m.SetMarks(time.Second, 5*time.Second)
	m.LoopFromMarks()
	m.Recalculate()
	return m
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := sampleModel(t, dir)
	path := filepath.Join(dir, "project.json")

	require.NoError(t, Save(m, path))

	loaded, err := Load(path, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, FromModel(m), FromModel(loaded))
	assert.Equal(t, m.Duration(), loaded.Duration())
	assert.Equal(t, 25.0, loaded.FrameRate)
	assert.True(t, loaded.Looping)
	assert.True(t, loaded.Tracks[0].Muted)
	assert.True(t, loaded.Tracks[1].Locked)
	assert.Equal(t, 0.8, loaded.Tracks[0].Clips[0].Gain)
	assert.Equal(t, "fade", loaded.Tracks[0].Clips[0].Filters[0].Name)
}

func TestLoadSkipsMissingMedia(t *testing.T) {
	dir := t.TempDir()
	m := sampleModel(t, dir)

	// a generator clip has no source file and must survive the load
	title := timeline.NewStillClip("title", "", 3*time.Second)
	m.Tracks[0].Insert(title)
	m.Recalculate()

	path := filepath.Join(dir, "project.json")
	require.NoError(t, Save(m, path))

	require.NoError(t, os.Remove(filepath.Join(dir, "intro.mp4")))

	loaded, err := Load(path, zerolog.Nop())
	require.NoError(t, err)

	assert.Len(t, loaded.Tracks[0].Clips, 1)
	assert.Equal(t, "title", loaded.Tracks[0].Clips[0].Name)
	assert.Len(t, loaded.Tracks[1].Clips, 1)
	// duration reflects what actually loaded
	assert.Equal(t, 30*time.Second, loaded.Duration())
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidProject)
}

func TestLoadRejectsMissingVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noversion.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tracks":[]}`), 0644))

	_, err := Load(path, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidProject)
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99,"tracks":[]}`), 0644))

	_, err := Load(path, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidProject)
}

func TestLoadRejectsUnknownTrackKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kind.json")
	doc := `{"version":1,"tracks":[{"name":"X","kind":"subtitle","clips":[]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	_, err := Load(path, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidProject)
}

func TestDocumentApplyIsExact(t *testing.T) {
	dir := t.TempDir()
	m := sampleModel(t, dir)
	doc := FromModel(m)

	// Apply restores clips even when their sources are gone; that is what
	// undo relies on.
	require.NoError(t, os.Remove(filepath.Join(dir, "intro.mp4")))

	fresh := timeline.NewModel(30)
	require.NoError(t, doc.Apply(fresh))
	assert.Equal(t, doc, FromModel(fresh))
	assert.Equal(t, m.Duration(), fresh.Duration())
}

func TestClipDocDefaultsGain(t *testing.T) {
	cd := ClipDoc{Name: "a", Source: "", Start: 0, Duration: 2, Still: true}
	c, err := cd.clip()
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Gain)
	assert.NotEmpty(t, c.ID)
}
