package config

const (
	defaultLogDir            = "~/.local/share/subkatsu/logs"
	defaultModelDir          = "~/.local/share/subkatsu/models"
	defaultScreenshotDir     = "~/Pictures/subkatsu"
	defaultOrder             = 2
	defaultFrameRate         = 24.0
	defaultGenerateCount     = 25
	defaultCJKSegmenter      = SegmenterKagome
	defaultFFmpegBinary      = "ffmpeg"
	defaultResolution        = "1s"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultInspectTopN       = 20
	defaultConfigPathSetting = "~/.config/subkatsu/config.toml"
)

// ModelExtension is appended to bare model names without an extension.
const ModelExtension = ".db"

// Segmenter names accepted by tokenizer.cjk_segmenter.
const (
	SegmenterKagome = "kagome"
	SegmenterGSE    = "gse"
)

func defaultExtensions() []string {
	return []string{".srt", ".ass", ".ssa", ".vtt"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:        defaultLogDir,
			ModelDir:      defaultModelDir,
			ScreenshotDir: defaultScreenshotDir,
		},
		Train: Train{
			Order:              defaultOrder,
			Extensions:         defaultExtensions(),
			FrameRate:          defaultFrameRate,
			DedupConsecutive:   true,
			SkipAdvertisements: false,
		},
		Generate: Generate{
			Count:       defaultGenerateCount,
			InspectTopN: defaultInspectTopN,
		},
		Tokenizer: Tokenizer{
			CJKSegmenter: defaultCJKSegmenter,
		},
		Screenshots: Screenshots{
			FFmpegBinary: defaultFFmpegBinary,
			Resolution:   defaultResolution,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
