package logger

import "go.uber.org/zap/zapcore"

// Verbosity levels for the CLI -v count. They select output categories
// (see output.go) as well as the log level.
//
//	if logger.ShouldOutput(verbosity, logger.OutputTiming) {
//	    pterm.Info.Printfln("%s took %s", path, d)
//	}
const (
	VerbosityUser  = 0 // No flags: results and diagnostics only
	VerbosityInfo  = 1 // -v: + progress, config source
	VerbosityDebug = 2 // -vv: + timing, effective options
)

// VerbosityToLevel maps verbosity flags (-v, -vv, etc.) to zap log levels
//
//	0 (none)  -> WarnLevel
//	1 (-v)    -> InfoLevel
//	2+ (-vv)  -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
