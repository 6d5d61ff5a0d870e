package core

import (
	"strings"

	"github.com/rs/zerolog/log"

	"yarn-audit-gate/internal/types"
)

// MissingExclusionsError is the fatal form of exclusion drift: its exit code
// is the count of configured exclusions that no longer match any advisory.
type MissingExclusionsError struct {
	Missing []string
}

func (e *MissingExclusionsError) Error() string {
	return "exclusions not found in audit results: " + strings.Join(e.Missing, ", ")
}

func (e *MissingExclusionsError) Count() int {
	return len(e.Missing)
}

type ExclusionAuditor struct{}

func NewExclusionAuditor() ExclusionAuditor {
	return ExclusionAuditor{}
}

// CheckMissing cross-references the configured exclusion set against every
// advisory seen this run. Entries that match nothing are drift: the
// underlying advisory was fixed or withdrawn, and the exclusion should be
// removed from configuration.
func (a ExclusionAuditor) CheckMissing(allAdvisories []types.Advisory, set types.ExclusionSet) []string {
	var missing []string
	for _, entry := range set.Entries {
		matched := false
		for _, advisory := range allAdvisories {
			if entry.Matches(advisory) {
				matched = true
				break
			}
		}
		if !matched {
			missing = append(missing, entry.Raw)
		}
	}
	return missing
}

// Enforce warns about missing exclusions, or turns them fatal when
// failOnMissing is set.
func (a ExclusionAuditor) Enforce(missing []string, failOnMissing bool) error {
	if len(missing) == 0 {
		return nil
	}
	log.Warn().Strs("exclusions", missing).Msg("configured exclusions matched no advisory")
	if failOnMissing {
		return &MissingExclusionsError{Missing: missing}
	}
	return nil
}
