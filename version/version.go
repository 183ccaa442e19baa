package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/typetransform/errors"
)

// Build information. These variables are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/teranos/typetransform/version.Version=v0.4.0"
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash" yaml:"commit_hash"`
	BuildTime  string `json:"build_time" yaml:"build_time"`
	Version    string `json:"version" yaml:"version"`
	GoVersion  string `json:"go_version" yaml:"go_version"`
	Platform   string `json:"platform" yaml:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	return fmt.Sprintf("type-transform %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// IsDev reports whether the binary was built without a release version.
func (i Info) IsDev() bool {
	return i.Version == "" || i.Version == "dev"
}

// Satisfies checks the binary version against a semver constraint such as
// ">= 0.4, < 1". Development builds satisfy every constraint.
func (i Info) Satisfies(constraint string) error {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" || i.IsDev() {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfig, fmt.Sprintf("invalid version constraint %q: %v", constraint, err))
	}

	v, err := semver.NewVersion(i.Version)
	if err != nil {
		return errors.Wrapf(err, "invalid binary version %q", i.Version)
	}

	if !c.Check(v) {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrVersionMismatch, "type-transform %s does not satisfy %q", v.String(), constraint),
			"install a version matching %q or relax the requires setting", constraint)
	}
	return nil
}
