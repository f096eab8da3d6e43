package screenshots

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subkatsu/internal/services"
	"subkatsu/internal/subtitles"
)

// firstPick always selects index zero.
type firstPick struct{}

func (firstPick) IntN(int) int { return 0 }

// lastPick always selects the highest index.
type lastPick struct{}

func (lastPick) IntN(n int) int { return n - 1 }

type fakeExecutor struct {
	calls  [][]string
	output []byte
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{binary}, args...))
	return f.output, f.err
}

func sampleEntries() []subtitles.Entry {
	return []subtitles.Entry{
		{Start: 0, End: time.Second, Text: "first"},
		{Start: 500 * time.Millisecond, End: 2 * time.Second, Text: "second"},
		{Start: 3 * time.Second, End: 4 * time.Second, Text: "  "},
		{Start: 5 * time.Second, End: 6 * time.Second, Text: "third"},
	}
}

func TestSelectDedupesByResolution(t *testing.T) {
	got := Select(sampleEntries(), time.Second, 0, firstPick{})
	assert.Equal(t, []Candidate{
		{Text: "first", At: 0},
		{Text: "third", At: 5 * time.Second},
	}, got)
}

func TestSelectWithoutResolutionKeepsSpokenEntries(t *testing.T) {
	got := Select(sampleEntries(), 0, 0, lastPick{})
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, 999*time.Millisecond, got[0].At)
	assert.Equal(t, "second", got[1].Text)
	assert.Equal(t, 1999*time.Millisecond, got[1].At)
	assert.Equal(t, "third", got[2].Text)
}

func TestSelectSubsetIsSortedByTime(t *testing.T) {
	got := Select(sampleEntries(), 0, 2, lastPick{})
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "third", got[1].Text)
	assert.Less(t, got[0].At, got[1].At)
}

func TestSelectZeroLengthEntryUsesStart(t *testing.T) {
	entries := []subtitles.Entry{{Start: 2 * time.Second, End: 2 * time.Second, Text: "blink"}}
	got := Select(entries, 0, 0, lastPick{})
	require.Len(t, got, 1)
	assert.Equal(t, 2*time.Second, got[0].At)
}

func TestFileName(t *testing.T) {
	at := 61*time.Second + 234*time.Millisecond
	assert.Equal(t, "ep01_001-01-234_aGk=.jpg", FileName("ep01_", at, "hi"))

	long := FileName("", at, strings.Repeat("x", 300))
	assert.Equal(t, "001-01-234_.jpg", long)
}

func TestQuoteFilterArg(t *testing.T) {
	assert.Equal(t, `'/tmp/a.ass'`, quoteFilterArg("/tmp/a.ass"))
	assert.Equal(t, `'/tmp/it'\''s.ass'`, quoteFilterArg("/tmp/it's.ass"))
}

func TestExtractSubtitles(t *testing.T) {
	exec := &fakeExecutor{output: []byte("[Script Info]\n")}
	c := newCapturer("", exec, nil)

	out, err := c.ExtractSubtitles(context.Background(), "/videos/ep1.mkv")
	require.NoError(t, err)
	assert.Equal(t, "[Script Info]\n", string(out))
	require.Len(t, exec.calls, 1)
	assert.Equal(t, "ffmpeg", exec.calls[0][0])
	assert.Contains(t, strings.Join(exec.calls[0], " "), "-map 0:s:0 -f ass -")
}

func TestExtractSubtitlesFailure(t *testing.T) {
	c := newCapturer("ffmpeg", &fakeExecutor{err: errors.New("exit status 1: no stream")}, nil)
	_, err := c.ExtractSubtitles(context.Background(), "/videos/ep1.mkv")
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrExternalTool)

	c = newCapturer("ffmpeg", &fakeExecutor{}, nil)
	_, err = c.ExtractSubtitles(context.Background(), "/videos/ep1.mkv")
	assert.ErrorIs(t, err, services.ErrExternalTool)
}

func TestCaptureEmitsShots(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{}
	c := newCapturer("/usr/bin/ffmpeg", exec, nil)

	candidates := []Candidate{
		{Text: "hi", At: 1500 * time.Millisecond},
		{Text: "yo", At: 3 * time.Second},
	}
	var shots []Shot
	err := c.Capture(context.Background(), "/videos/ep1.mkv", "/tmp/gen.ass", dir, "ep1_", candidates, func(s Shot) error {
		shots = append(shots, s)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, shots, 2)
	assert.Equal(t, Shot{
		Source:      "/videos/ep1.mkv",
		TimestampMS: 1500,
		Path:        filepath.Join(dir, "ep1_000-01-500_aGk=.jpg"),
		Text:        "hi",
	}, shots[0])

	require.Len(t, exec.calls, 2)
	args := strings.Join(exec.calls[0], " ")
	assert.Contains(t, args, "-ss 1.500 -copyts -i /videos/ep1.mkv")
	assert.Contains(t, args, "-vf subtitles='/tmp/gen.ass'")
	assert.Contains(t, args, "-vframes 1")
}

func TestCaptureStopsOnFailure(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("boom")}
	c := newCapturer("ffmpeg", exec, nil)
	err := c.Capture(context.Background(), "v.mkv", "s.ass", t.TempDir(), "", []Candidate{{Text: "a"}, {Text: "b"}}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrExternalTool)
	assert.Len(t, exec.calls, 1)
}
