package logger

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the ANSI sequences used by the minimal encoder.
type palette struct {
	fg        string
	time      string
	component string
	path      string
	number    string
	target    string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

var themes = map[string]palette{
	// Gruvbox Dark (warm, muted)
	"gruvbox": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;108m",
		component: "\x1b[38;5;208m",
		path:      "\x1b[38;5;109m",
		number:    "\x1b[38;5;175m",
		target:    "\x1b[38;5;142m",
		warn:      "\x1b[38;5;214m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;88m",
	},
	// Everforest Dark (forest greens)
	"everforest": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;107m",
		component: "\x1b[38;5;65m",
		path:      "\x1b[38;5;109m",
		number:    "\x1b[38;5;108m",
		target:    "\x1b[38;5;208m",
		warn:      "\x1b[38;5;179m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;52m",
	},
}

var currentTheme = "everforest"

// SetTheme configures the color scheme for log output. Unknown names are ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

// Theme returns the active theme name.
func Theme() string {
	return currentTheme
}

// Themes lists the known theme names.
func Themes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func colors() palette {
	return themes[currentTheme]
}

// minimalEncoder implements a compact console encoder with theme support.
// Format: "13:04:35  transform  wrote output  models.ts -> Models.swift (swift) 3ms"
type minimalEncoder struct {
	zapcore.Encoder
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := buffer.NewPool().Get()

	final.AppendString(c.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level is only shown when it is not INFO
	if lvl := levelColorString(ent.Level); lvl != "" {
		final.AppendString("  ")
		final.AppendString(lvl)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(c.component)
		final.AppendString(ent.LoggerName)
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(c.fg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	if len(fields) > 0 {
		if values := extractFieldValues(fields); values != "" {
			final.AppendString("  ")
			final.AppendString(values)
		}
	}

	final.AppendString("\n")
	return final, nil
}

func levelColorString(level zapcore.Level) string {
	c := colors()
	switch level {
	case zapcore.InfoLevel:
		return ""
	case zapcore.DebugLevel:
		return c.fg + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + c.errBg + c.err + "ERROR" + colorReset
	default:
		return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
	}
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.Float64Type:
		return strconv.FormatFloat(math.Float64frombits(uint64(field.Integer)), 'g', -1, 64)
	case zapcore.Float32Type:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(field.Integer))), 'g', -1, 32)
	case zapcore.DurationType:
		return time.Duration(field.Integer).String()
	case zapcore.BoolType:
		if field.Integer == 1 {
			return "true"
		}
		return "false"
	}
	if field.Interface != nil {
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
		return fmt.Sprintf("%v", field.Interface)
	}
	return field.String
}

// extractFieldValues renders structured fields compactly. Well-known fields
// get a dedicated layout; every other field is shown as key=value so nothing
// is dropped.
//
//	{"file": "a.ts", "output": "A.swift", "target": "swift", "duration_ms": 3}
//	-> "a.ts -> A.swift (swift) 3ms"
func extractFieldValues(fields []zapcore.Field) string {
	c := colors()
	var file, output, target, duration string
	var rest []string

	for _, field := range fields {
		val := getFieldValue(field)
		switch field.Key {
		case FieldFile:
			file = val
		case FieldOutput:
			output = val
		case FieldTarget:
			target = val
		case FieldDurationMS:
			duration = val
		default:
			rest = append(rest, c.fg+field.Key+"="+colorReset+c.number+val+colorReset)
		}
	}

	var values []string
	switch {
	case file != "" && output != "":
		values = append(values, c.path+file+colorReset+c.fg+" -> "+colorReset+c.path+output+colorReset)
	case file != "":
		values = append(values, c.path+file+colorReset)
	case output != "":
		values = append(values, c.path+output+colorReset)
	}
	if target != "" {
		values = append(values, c.fg+"("+colorReset+c.target+target+colorReset+c.fg+")"+colorReset)
	}
	if duration != "" {
		values = append(values, c.number+duration+colorReset+"ms")
	}
	values = append(values, rest...)

	return strings.Join(values, " ")
}
