package types

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Exclusion is one advisory identifier suppressed from reporting: either a
// numeric audit id or a globally-namespaced GHSA code.
type Exclusion struct {
	Raw  string
	ID   int
	Code string
}

var ghsaCodePattern = regexp.MustCompile(`^GHSA(-[23456789cfghjmpqrvwx]{4}){3}$`)

// ParseExclusion accepts a bare integer audit id or a GHSA code. Anything
// else is a configuration error.
func ParseExclusion(raw string) (Exclusion, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Exclusion{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty exclusion entry")
	}
	if ghsaCodePattern.MatchString(trimmed) {
		return Exclusion{Raw: trimmed, Code: trimmed}, nil
	}
	id, err := strconv.Atoi(trimmed)
	if err != nil || id < 0 {
		return Exclusion{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid exclusion entry: " + trimmed + " (expected a numeric advisory id or a GHSA code)")
	}
	return Exclusion{Raw: trimmed, ID: id}, nil
}

// ParseExclusionList parses a list of raw identifier strings, splitting each
// on commas, so both repeated flags and CSV values are accepted.
func ParseExclusionList(values []string) ([]Exclusion, error) {
	var entries []Exclusion
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			entry, err := ParseExclusion(part)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (e Exclusion) Matches(advisory Advisory) bool {
	if e.Code != "" {
		return e.Code == advisory.GithubAdvisoryID
	}
	return e.ID == advisory.ID
}

// ExclusionSet is the resolved set of exclusions for one run, tagged with the
// collaborator that supplied it.
type ExclusionSet struct {
	Origin  ExclusionOrigin
	Entries []Exclusion
}

func (s ExclusionSet) Empty() bool {
	return len(s.Entries) == 0
}

func (s ExclusionSet) Contains(advisory Advisory) bool {
	for _, entry := range s.Entries {
		if entry.Matches(advisory) {
			return true
		}
	}
	return false
}

// PolicyExclusion is an audit-policy.yaml exclusion entry. Expired entries
// are dropped before the exclusion set is built.
type PolicyExclusion struct {
	ID        string `yaml:"id"`
	Reason    string `yaml:"reason,omitempty"`
	ExpiresAt string `yaml:"expires_at,omitempty"`
}

// AuditPolicy carries project-level defaults declared in audit-policy.yaml.
type AuditPolicy struct {
	Severity               string            `yaml:"severity,omitempty"`
	FailOnMissingExclusion bool              `yaml:"fail_on_missing_exclusions,omitempty"`
	Exclusions             []PolicyExclusion `yaml:"exclusions,omitempty"`
}
