package logger

// OutputCategory is a kind of CLI output that the -v count switches on,
// independently of log severity.
//
//	0 (default) - generated files, diagnostics, final status
//	1 (-v)      - + config files used, batch progress, watcher status
//	2 (-vv)     - + per-file timing, effective options
type OutputCategory int

const (
	// Level 0 - always shown
	OutputResults OutputCategory = iota // Generated file paths, check diffs

	// Level 1 (-v)
	OutputConfigSource // Which config files were merged
	OutputProgress     // Batch size and worker count
	OutputWatchStatus  // File changed, regenerating

	// Level 2 (-vv)
	OutputTiming  // Duration per file
	OutputOptions // Effective target and emit options
)

var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,

	OutputConfigSource: VerbosityInfo,
	OutputProgress:     VerbosityInfo,
	OutputWatchStatus:  VerbosityInfo,

	OutputTiming:  VerbosityDebug,
	OutputOptions: VerbosityDebug,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return false
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:      "results",
	OutputConfigSource: "config-source",
	OutputProgress:     "progress",
	OutputWatchStatus:  "watch-status",
	OutputTiming:       "timing",
	OutputOptions:      "options",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch {
	case verbosity <= VerbosityUser:
		return "results and diagnostics only"
	case verbosity == VerbosityInfo:
		return "results, diagnostics, progress and config source"
	default:
		return "above + timing and effective options"
	}
}
