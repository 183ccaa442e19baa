// Package format runs an external formatter, such as swift-format or
// ktlint, over a generated file.
package format

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/typetransform/errors"
	"github.com/teranos/typetransform/logger"
)

// Placeholder in a command line is replaced by the file path. Commands
// without it get the path appended as the last argument.
const Placeholder = "{}"

// Command splits a formatter command line with shell quoting rules and
// inserts path.
func Command(command, path string) ([]string, error) {
	args, err := shellquote.Split(command)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid formatter command %q", command)
	}
	if len(args) == 0 {
		return nil, errors.Newf("empty formatter command")
	}

	substituted := false
	for i, arg := range args {
		if strings.Contains(arg, Placeholder) {
			args[i] = strings.ReplaceAll(arg, Placeholder, path)
			substituted = true
		}
	}
	if !substituted {
		args = append(args, path)
	}
	return args, nil
}

// Run formats the file at path in place with command.
func Run(ctx context.Context, command, path string) error {
	args, err := Command(command, path)
	if err != nil {
		return err
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "formatter %s failed on %s", args[0], path)
		if msg := strings.TrimSpace(string(out)); msg != "" {
			err = errors.WithDetail(err, msg)
		}
		return err
	}

	logger.Debugw("formatted output",
		logger.FieldFile, path,
		logger.FieldCommand, shellquote.Join(args...),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return nil
}
