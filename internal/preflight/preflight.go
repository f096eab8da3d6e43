package preflight

import (
	"subkatsu/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks that apply to cfg. The log directory
// is only checked when file logging is enabled.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Model directory", cfg.Paths.ModelDir))
	results = append(results, CheckDirectoryAccess("Screenshot directory", cfg.Paths.ScreenshotDir))
	if cfg.Logging.File {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	return results
}
