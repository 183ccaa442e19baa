package transform

import (
	"context"
	"os"

	"github.com/teranos/typetransform/errors"
)

// CheckResult compares freshly generated output with the file on disk.
type CheckResult struct {
	*Result

	// Stale is true when the output file is missing or differs.
	Stale bool `json:"stale"`

	// Diff is a unified diff from the file on disk to the fresh output.
	Diff string `json:"diff,omitempty"`
}

// Err returns an error wrapping errors.ErrStale when the output is stale,
// or the input failure when generation failed.
func (c *CheckResult) Err() error {
	if err := c.Result.Err(); err != nil {
		return err
	}
	if c.Stale {
		return errors.Wrapf(errors.ErrStale, "%s", c.Output)
	}
	return nil
}

// Check generates output for sourcePath in memory and compares it with the
// existing outPath. Nothing is written.
func Check(ctx context.Context, sourcePath, outPath string, opts Options) (*CheckResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	em, err := ResolveTarget(opts.Target, outPath)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", sourcePath)
	}

	r := generate(sourcePath, string(src), em, opts)
	r.Output = outPath
	c := &CheckResult{Result: r}
	if !r.Success {
		return c, nil
	}

	existing, err := os.ReadFile(outPath)
	switch {
	case os.IsNotExist(err):
		c.Stale = true
		c.Diff = UnifiedDiff(outPath, "", r.Code)
	case err != nil:
		return nil, errors.Wrapf(err, "failed to read %s", outPath)
	case string(existing) != r.Code:
		c.Stale = true
		c.Diff = UnifiedDiff(outPath, string(existing), r.Code)
	}
	return c, nil
}
