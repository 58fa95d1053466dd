package vercomp

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// constraintMarks are the characters that turn a selector into a range.
const constraintMarks = "~^<>=*xX|, "

// IsConstraint reports whether selector should be read as a semver range
// rather than an exact version label.
func IsConstraint(selector string) bool {
	if !strings.ContainsAny(selector, constraintMarks) {
		return false
	}
	_, err := semver.NewConstraint(selector)
	return err == nil
}

// Latest returns the last element of the ordered versions list that
// satisfies constraint. Labels that are not semver are skipped; the list
// order is trusted, versions are never sorted.
func Latest(versions []string, constraint string) (string, bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return "", false, errors.Wrapf(err, "parse constraint %q", constraint)
	}

	for i := len(versions) - 1; i >= 0; i-- {
		v, err := semver.NewVersion(versions[i])
		if err != nil {
			continue
		}
		if c.Check(v) {
			return versions[i], true, nil
		}
	}
	return "", false, nil
}
