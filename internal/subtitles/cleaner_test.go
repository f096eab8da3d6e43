package subtitles

import (
	"strings"
	"testing"
)

func TestIsAdvertisementOnParsedCues(t *testing.T) {
	raw := `1
00:00:01,000 --> 00:00:03,000
www.OpenSubtitles.org

2
00:00:04,000 --> 00:00:06,000
Hello there!

3
00:00:07,000 --> 00:00:09,000
Subtitle by AwesomeSubs
`
	file, err := Parse(strings.NewReader(raw), FormatSRT, 0)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	var dialogue []string
	for _, entry := range file.Entries() {
		if !IsAdvertisement(entry.Text) {
			dialogue = append(dialogue, entry.Text)
		}
	}
	if len(dialogue) != 1 || dialogue[0] != "Hello there!" {
		t.Fatalf("expected only dialogue to remain, got %q", dialogue)
	}
}

func TestIsAdvertisement(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"Hello there!", false},
		{"Synced and corrected by someone", true},
		{"Visit https://example.com", true},
		{"the yts of it", true},
		{"Bytes are small", false},
	}
	for _, tt := range tests {
		if got := IsAdvertisement(tt.text); got != tt.want {
			t.Errorf("IsAdvertisement(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
