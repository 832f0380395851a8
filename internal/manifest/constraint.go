package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrConstraint is wrapped when a constraint string cannot be classified.
var ErrConstraint = errors.New("unrecognized version constraint")

// ConstraintKind says what a dependency constraint string refers to.
type ConstraintKind int

const (
	// ConstraintRange is a semver range such as "^1.2.0" or "1.x || 2.x".
	ConstraintRange ConstraintKind = iota
	// ConstraintTag is a dist-tag such as "latest" or "next".
	ConstraintTag
	// ConstraintProtocol is a non-registry specifier: file:, link:, git URLs,
	// npm: aliases, workspace:, tarball URLs and owner/repo shorthands.
	ConstraintProtocol
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintRange:
		return "range"
	case ConstraintTag:
		return "tag"
	case ConstraintProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

var protocolPrefixes = []string{
	"file:", "link:", "portal:", "workspace:", "npm:",
	"git:", "git+", "github:", "gitlab:", "bitbucket:", "gist:",
	"http://", "https://",
}

var (
	tagPattern       = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]*$`)
	shorthandPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*/[A-Za-z0-9._-]+(#.*)?$`)
)

// ClassifyConstraint reports what kind of specifier constraint is. Ranges are
// only checked for syntax; nothing is resolved against a registry.
func ClassifyConstraint(constraint string) (ConstraintKind, error) {
	c := strings.TrimSpace(constraint)

	// npm treats an empty constraint as "*".
	if c == "" {
		return ConstraintRange, nil
	}

	lower := strings.ToLower(c)
	for _, prefix := range protocolPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return ConstraintProtocol, nil
		}
	}
	if shorthandPattern.MatchString(c) {
		return ConstraintProtocol, nil
	}

	if _, err := semver.NewConstraint(c); err == nil {
		return ConstraintRange, nil
	}

	// "v1.2.3" style values that semver rejected are broken ranges, not tags.
	if tagPattern.MatchString(c) && !looksNumeric(c) {
		return ConstraintTag, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrConstraint, constraint)
}

func looksNumeric(s string) bool {
	s = strings.TrimPrefix(strings.ToLower(s), "v")
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
