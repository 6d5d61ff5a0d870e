// Package policies holds the run-level decision rules that sit between
// configuration collaborators and the classification core.
package policies

import (
	"github.com/rs/zerolog/log"

	"yarn-audit-gate/internal/types"
)

// ExclusionSources collects every collaborator that can supply exclusions
// for one run.
type ExclusionSources struct {
	CommandLine   []types.Exclusion
	IyarcPresent  bool
	Iyarc         []types.Exclusion
	PolicyPresent bool
	Policy        []types.Exclusion
}

// ResolveExclusionSet applies source precedence: command line beats .iyarc,
// which beats the policy file. A lower-precedence source present alongside a
// higher one is ignored with a warning, never merged.
func ResolveExclusionSet(sources ExclusionSources) types.ExclusionSet {
	if len(sources.CommandLine) > 0 {
		if sources.IyarcPresent {
			log.Warn().Msg("ignoring .iyarc: exclusions given on the command line take precedence")
		}
		if sources.PolicyPresent && len(sources.Policy) > 0 {
			log.Warn().Msg("ignoring audit policy exclusions: exclusions given on the command line take precedence")
		}
		return types.ExclusionSet{Origin: types.ExclusionOriginCommandLine, Entries: sources.CommandLine}
	}
	if sources.IyarcPresent {
		if sources.PolicyPresent && len(sources.Policy) > 0 {
			log.Warn().Msg("ignoring audit policy exclusions: .iyarc takes precedence")
		}
		return types.ExclusionSet{Origin: types.ExclusionOriginIyarc, Entries: sources.Iyarc}
	}
	if sources.PolicyPresent {
		return types.ExclusionSet{Origin: types.ExclusionOriginPolicy, Entries: sources.Policy}
	}
	return types.ExclusionSet{Origin: types.ExclusionOriginNone}
}
