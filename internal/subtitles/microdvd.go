package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/asticode/go-astisub"
)

var microDVDLine = regexp.MustCompile(`^\{(\d+)\}\{(\d*)\}(.*)$`)

// readMicroDVD parses "{start}{end}text" frame-based lines. Line breaks
// inside a cue are written as '|'.
func readMicroDVD(r io.Reader, frameRate float64) (*astisub.Subtitles, error) {
	subs := astisub.NewSubtitles()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if raw == "" {
			continue
		}
		match := microDVDLine.FindStringSubmatch(raw)
		if match == nil {
			return nil, fmt.Errorf("line %d: not a MicroDVD cue", lineNo)
		}
		start, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: start frame: %w", lineNo, err)
		}
		end := start
		if match[2] != "" {
			if end, err = strconv.Atoi(match[2]); err != nil {
				return nil, fmt.Errorf("line %d: end frame: %w", lineNo, err)
			}
		}
		item := &astisub.Item{
			Index:   len(subs.Items) + 1,
			StartAt: framesToDuration(start, frameRate),
			EndAt:   framesToDuration(end, frameRate),
		}
		for _, text := range strings.Split(match[3], "|") {
			item.Lines = append(item.Lines, astisub.Line{Items: []astisub.LineItem{{Text: text}}})
		}
		subs.Items = append(subs.Items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}

func writeMicroDVD(w io.Writer, subs *astisub.Subtitles, frameRate float64) error {
	bw := bufio.NewWriter(w)
	for _, item := range subs.Items {
		lines := make([]string, 0, len(item.Lines))
		for _, line := range item.Lines {
			var b strings.Builder
			for _, li := range line.Items {
				b.WriteString(li.Text)
			}
			lines = append(lines, b.String())
		}
		if _, err := fmt.Fprintf(bw, "{%d}{%d}%s\n",
			durationToFrames(item.StartAt, frameRate),
			durationToFrames(item.EndAt, frameRate),
			strings.Join(lines, "|"),
		); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func framesToDuration(frames int, frameRate float64) time.Duration {
	return time.Duration(math.Round(float64(frames) / frameRate * float64(time.Second)))
}

func durationToFrames(d time.Duration, frameRate float64) int {
	return int(math.Round(d.Seconds() * frameRate))
}
