package screenshots

import (
	"cmp"
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
	"time"

	"subkatsu/internal/subtitles"
)

// RandomSource is the randomness used to pick instants and subsets.
// *rand.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

// Candidate is one planned screenshot.
type Candidate struct {
	Text string
	At   time.Duration
}

// maxFileNameLength leaves room for the extension under the common 255 byte
// limit.
const maxFileNameLength = 240

// Select plans screenshots for entries. Blank entries are ignored. With a
// positive resolution only one randomly chosen entry per resolution window
// (keyed by start time) survives. A positive count keeps a random subset of
// that size. Candidates are returned in timestamp order.
func Select(entries []subtitles.Entry, resolution time.Duration, count int, rng RandomSource) []Candidate {
	var spoken []subtitles.Entry
	for _, entry := range entries {
		if strings.TrimSpace(entry.Text) != "" {
			spoken = append(spoken, entry)
		}
	}

	if resolution > 0 {
		buckets := make(map[int64][]subtitles.Entry)
		var order []int64
		for _, entry := range spoken {
			key := int64(entry.Start / resolution)
			if _, ok := buckets[key]; !ok {
				order = append(order, key)
			}
			buckets[key] = append(buckets[key], entry)
		}
		slices.Sort(order)
		spoken = spoken[:0]
		for _, key := range order {
			group := buckets[key]
			spoken = append(spoken, group[rng.IntN(len(group))])
		}
	}

	candidates := make([]Candidate, 0, len(spoken))
	for _, entry := range spoken {
		candidates = append(candidates, Candidate{Text: entry.Text, At: randomInstant(entry, rng)})
	}

	if count > 0 && count < len(candidates) {
		// Partial Fisher-Yates: the first count slots become the sample.
		for i := range count {
			j := i + rng.IntN(len(candidates)-i)
			candidates[i], candidates[j] = candidates[j], candidates[i]
		}
		candidates = candidates[:count]
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(a.At, b.At)
	})
	return candidates
}

// randomInstant picks a millisecond inside [start, end).
func randomInstant(entry subtitles.Entry, rng RandomSource) time.Duration {
	start, end := entry.Start, entry.End
	if start > end {
		start, end = end, start
	}
	span := int((end - start) / time.Millisecond)
	if span <= 0 {
		return start
	}
	return start + time.Duration(rng.IntN(span))*time.Millisecond
}

// FileName builds "<prefix>MMM-SS-mmm_<base64url(text)>.jpg". The encoded
// text is dropped when it would push the name past the filesystem limit.
func FileName(prefix string, at time.Duration, text string) string {
	ms := at.Milliseconds()
	name := fmt.Sprintf("%s%03d-%02d-%03d_", prefix, ms/60000, (ms/1000)%60, ms%1000)
	suffix := base64.URLEncoding.EncodeToString([]byte(text))
	if len(name)+len(suffix) <= maxFileNameLength {
		name += suffix
	}
	return name + ".jpg"
}
