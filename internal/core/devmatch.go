package core

import (
	"regexp"
	"strings"

	"yarn-audit-gate/internal/types"
)

// DevDependencyMatcher decides whether an advisory is reachable only through
// development dependencies. The pattern is derived from the project's
// declared devDependencies names: a path is a dev path iff its first node is
// one of those names.
type DevDependencyMatcher struct {
	pattern *regexp.Regexp
}

func NewDevDependencyMatcher(devDependencyNames []string) *DevDependencyMatcher {
	var escaped []string
	for _, name := range devDependencyNames {
		if strings.TrimSpace(name) == "" {
			continue
		}
		escaped = append(escaped, regexp.QuoteMeta(name))
	}
	if len(escaped) == 0 {
		return nil
	}
	pattern := regexp.MustCompile(`^(` + strings.Join(escaped, "|") + `)(>|$)`)
	return &DevDependencyMatcher{pattern: pattern}
}

// Matches reports whether every dependency path across all the advisory's
// findings is a dev path. A single non-dev route to the vulnerable package
// keeps the advisory out of the dev bucket.
func (m *DevDependencyMatcher) Matches(advisory types.Advisory) bool {
	if m == nil {
		return false
	}
	paths := advisory.AllPaths()
	if len(paths) == 0 {
		return false
	}
	for _, path := range paths {
		if !m.pattern.MatchString(path) {
			return false
		}
	}
	return true
}
