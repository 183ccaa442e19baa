package transform

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/typetransform/emit"
	"github.com/teranos/typetransform/emit/kotlin"
	"github.com/teranos/typetransform/emit/swift"
	"github.com/teranos/typetransform/errors"
)

var emitters = map[string]emit.Emitter{
	"swift":  swift.NewGenerator(),
	"kotlin": kotlin.NewGenerator(),
}

// target spellings accepted on the command line and as output extensions
var targetAliases = map[string]string{
	"swift":  "swift",
	"kotlin": "kotlin",
	"kt":     "kotlin",
	"kts":    "kotlin",
}

// Targets lists the supported target languages.
func Targets() []string {
	names := make([]string, 0, len(emitters))
	for name := range emitters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EmitterFor returns the emitter for a target name or alias.
func EmitterFor(target string) (emit.Emitter, error) {
	name, ok := targetAliases[strings.ToLower(strings.TrimSpace(target))]
	if !ok {
		return nil, errors.WithHintf(
			errors.NewUnknownTargetError("unknown target %q", target),
			"supported targets: %s", strings.Join(Targets(), ", "))
	}
	return emitters[name], nil
}

// ResolveTarget picks the emitter for an explicit target, or infers it from
// the output path extension when target is empty.
func ResolveTarget(target, outPath string) (emit.Emitter, error) {
	if target != "" {
		return EmitterFor(target)
	}
	ext := strings.TrimPrefix(filepath.Ext(outPath), ".")
	if ext == "" {
		return nil, errors.WithHint(
			errors.NewUnknownTargetError("cannot infer target from %q", outPath),
			"pass --lang or use an output path ending in .swift or .kt")
	}
	em, err := EmitterFor(ext)
	if err != nil {
		return nil, errors.WithHint(
			errors.NewUnknownTargetError("cannot infer target from extension %q of %s", "."+ext, outPath),
			"pass --lang or use an output path ending in .swift or .kt")
	}
	return em, nil
}
