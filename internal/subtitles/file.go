package subtitles

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/asticode/go-astisub"

	"subkatsu/internal/services"
)

// Entry is one timed subtitle line.
type Entry struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// File is a parsed subtitle document that can be written back in its
// original format after entries are replaced.
type File struct {
	format    Format
	frameRate float64
	subs      *astisub.Subtitles
}

// Open reads path, detecting the format from its extension.
func Open(path string, frameRate float64) (*File, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "subtitles", "open", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "subtitles", "open", path, err)
	}
	file, err := Parse(bytes.NewReader(data), format, frameRate)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "subtitles", "parse", path, err)
	}
	return file, nil
}

// Parse decodes r as the given format. frameRate only matters for MicroDVD;
// non-positive values fall back to DefaultFrameRate.
func Parse(r io.Reader, format Format, frameRate float64) (*File, error) {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	var (
		subs *astisub.Subtitles
		err  error
	)
	switch format {
	case FormatSRT:
		subs, err = astisub.ReadFromSRT(r)
	case FormatASS, FormatSSA:
		subs, err = astisub.ReadFromSSA(r)
	case FormatWebVTT:
		subs, err = astisub.ReadFromWebVTT(r)
	case FormatMicroDVD:
		subs, err = readMicroDVD(r, frameRate)
	default:
		return nil, fmt.Errorf("unsupported subtitle format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", format, err)
	}
	return &File{format: format, frameRate: frameRate, subs: subs}, nil
}

// Format returns the container format the file was parsed from.
func (f *File) Format() Format { return f.format }

// Entries returns the timed lines in file order.
func (f *File) Entries() []Entry {
	entries := make([]Entry, 0, len(f.subs.Items))
	for _, item := range f.subs.Items {
		entries = append(entries, Entry{
			Start: item.StartAt,
			End:   item.EndAt,
			Text:  rawText(item),
		})
	}
	return entries
}

// SetEntries replaces every line's text. entries must come from Entries on
// the same file; timings are kept from the file.
func (f *File) SetEntries(entries []Entry) error {
	if len(entries) != len(f.subs.Items) {
		return services.Wrap(services.ErrSerialization, "subtitles", "update", fmt.Sprintf("have %d entries, file has %d", len(entries), len(f.subs.Items)), nil)
	}
	for i, entry := range entries {
		item := f.subs.Items[i]
		var voice string
		if len(item.Lines) > 0 {
			voice = item.Lines[0].VoiceName
		}
		item.Lines = []astisub.Line{{
			VoiceName: voice,
			Items:     []astisub.LineItem{{Text: entry.Text}},
		}}
	}
	return nil
}

// Write serializes the file in its original format.
func (f *File) Write(w io.Writer) error {
	var err error
	switch f.format {
	case FormatSRT:
		err = f.subs.WriteToSRT(w)
	case FormatASS, FormatSSA:
		err = f.subs.WriteToSSA(w)
	case FormatWebVTT:
		err = f.subs.WriteToWebVTT(w)
	case FormatMicroDVD:
		err = writeMicroDVD(w, f.subs, f.frameRate)
	default:
		err = fmt.Errorf("unsupported subtitle format %q", f.format)
	}
	if err != nil {
		return services.Wrap(services.ErrSerialization, "subtitles", "write", string(f.format), err)
	}
	return nil
}

// rawText rebuilds an item's text with its inline override blocks, joining
// lines with the ASS hard break so the sanitizer sees the original markup.
func rawText(item *astisub.Item) string {
	lines := make([]string, 0, len(item.Lines))
	for _, line := range item.Lines {
		var b strings.Builder
		for _, li := range line.Items {
			if li.InlineStyle != nil && li.InlineStyle.SSAEffect != "" {
				b.WriteString(li.InlineStyle.SSAEffect)
			}
			b.WriteString(li.Text)
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, `\N`)
}
