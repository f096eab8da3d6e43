package train

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subkatsu/internal/markov"
	"subkatsu/internal/services"
	"subkatsu/internal/subtitles"
)

func srt(lines ...string) string {
	var b strings.Builder
	for i, line := range lines {
		b.WriteString(strings.Join([]string{
			itoa(i + 1),
			"00:00:0" + itoa(i%10) + ",000 --> 00:00:0" + itoa(i%10) + ",500",
			line,
			"",
		}, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func itoa(i int) string {
	return string(rune('0' + i%10))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func defaultOptions() Options {
	return Options{Order: 1, DedupConsecutive: true, SkipAdvertisements: true}
}

func TestFeedEntriesSuppressesConsecutiveDuplicates(t *testing.T) {
	trainer := New(defaultOptions(), nil, nil)
	chain := markov.New(1)
	entries := []subtitles.Entry{
		{Text: "run away"},
		{Text: "run away"},
		{Text: `{\blur3}run away`},
	}

	stats := trainer.FeedEntries(chain, entries)

	assert.Equal(t, FileStats{Entries: 3, Fed: 1, Duplicates: 2}, stats)
	assert.Equal(t, map[string]int{"away": 1}, chain.Successors([]string{"run"}))
}

func TestFeedEntriesDuplicatesAcrossFilesCountIndependently(t *testing.T) {
	trainer := New(defaultOptions(), nil, nil)
	chain := markov.New(1)

	trainer.FeedEntries(chain, []subtitles.Entry{{Text: "run away"}, {Text: "run away"}})
	trainer.FeedEntries(chain, []subtitles.Entry{{Text: "run away"}})

	assert.Equal(t, map[string]int{"away": 2}, chain.Successors([]string{"run"}))
}

func TestFeedEntriesNonConsecutiveRepeatsAreFed(t *testing.T) {
	trainer := New(defaultOptions(), nil, nil)
	chain := markov.New(1)

	stats := trainer.FeedEntries(chain, []subtitles.Entry{{Text: "yes"}, {Text: "no"}, {Text: "yes"}})

	assert.Equal(t, 3, stats.Fed)
	assert.Equal(t, map[string]int{"yes": 2, "no": 1}, chain.Successors([]string{markov.Boundary}))
}

func TestFeedEntriesDedupDisabled(t *testing.T) {
	opts := defaultOptions()
	opts.DedupConsecutive = false
	trainer := New(opts, nil, nil)
	chain := markov.New(1)

	stats := trainer.FeedEntries(chain, []subtitles.Entry{{Text: "again"}, {Text: "again"}, {Text: "again"}})

	assert.Equal(t, 3, stats.Fed)
}

func TestFeedEntriesSkipsEmptyAndAds(t *testing.T) {
	trainer := New(defaultOptions(), nil, nil)
	chain := markov.New(1)

	stats := trainer.FeedEntries(chain, []subtitles.Entry{
		{Text: ""},
		{Text: `{\an8}`},
		{Text: "Subtitles by FanGroup"},
		{Text: "real dialogue"},
	})

	assert.Equal(t, FileStats{Entries: 4, Fed: 1, Empty: 2, Ads: 1}, stats)
}

func TestTrainFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "ep01.srt", srt("I want to go home", "I want to go home", "I want to go home"))
	second := writeFile(t, dir, "ep02.srt", srt("I want to go home"))

	trainer := New(defaultOptions(), nil, nil)
	chain, summary, err := trainer.Train(context.Background(), []string{first, second})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 2, summary.Fed)
	assert.Equal(t, 2, summary.Duplicates)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, map[string]int{"I": 2}, chain.Successors([]string{markov.Boundary}))
}

func TestTrainSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.srt", srt("hello there"))
	bad := writeFile(t, dir, "bad.sub", "this is not microdvd\n")
	missing := filepath.Join(dir, "missing.srt")

	trainer := New(defaultOptions(), nil, nil)
	_, summary, err := trainer.Train(context.Background(), []string{good, bad, missing})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 2, summary.Skipped)
	require.Len(t, summary.Failures, 2)
	assert.ErrorIs(t, summary.Failures[0].Err, services.ErrInput)
}

func TestTrainFailsWhenNothingProcessed(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.sub", "garbage\n")

	trainer := New(defaultOptions(), nil, nil)
	_, summary, err := trainer.Train(context.Background(), []string{bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrNoInput)
	assert.Equal(t, 1, summary.Skipped)
}

func TestTrainEmptyDirectory(t *testing.T) {
	trainer := New(defaultOptions(), nil, nil)
	_, _, err := trainer.Train(context.Background(), []string{t.TempDir()})
	assert.ErrorIs(t, err, services.ErrNoInput)
}

func TestTrainHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ep01.srt", srt("hello"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New(defaultOptions(), nil, nil).Train(ctx, []string{path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrainUsesRunIDFromContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ep01.srt", srt("hello"))
	ctx := services.WithRunID(context.Background(), "fixed-run")

	_, summary, err := New(defaultOptions(), nil, nil).Train(ctx, []string{path})
	require.NoError(t, err)
	assert.Equal(t, "fixed-run", summary.RunID)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	top := writeFile(t, dir, "b.srt", "")
	writeFile(t, dir, "a.ASS", "")
	writeFile(t, dir, "notes.txt", "")
	nested := writeFile(t, dir, filepath.Join("season2", "c.vtt"), "")
	explicit := writeFile(t, t.TempDir(), "odd.txt", "")
	exts := []string{".srt", ".ass", ".vtt"}

	flat, err := Discover([]string{dir}, false, exts)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.ASS"), top}, flat)

	deep, err := Discover([]string{dir, top, explicit}, true, exts)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.ASS"), top, nested, explicit}, deep)
}
