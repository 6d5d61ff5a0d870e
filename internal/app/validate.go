package app

import (
	"github.com/rs/zerolog/log"
)

// Validate parses the configuration collaborators (.iyarc, audit-policy.yaml,
// package.json) without running the audit, so CI can gate on configuration
// drift cheaply.
func (s Service) Validate(req ValidateRequest) (ValidateResult, error) {
	result := ValidateResult{}

	iyarcEntries, iyarcPresent, err := s.ExclusionFile.Read(s.iyarcPath(req.Dir, req.IyarcPath))
	if err != nil {
		return ValidateResult{}, err
	}
	result.IyarcPresent = iyarcPresent
	result.IyarcEntries = len(iyarcEntries)

	policy, policyPresent, err := s.PolicyFile.Read(s.policyPath(req.Dir, req.PolicyPath))
	if err != nil {
		return ValidateResult{}, err
	}
	result.PolicyPresent = policyPresent
	if policyPresent {
		active, expired, err := s.PolicyFile.ActiveExclusions(policy)
		if err != nil {
			return ValidateResult{}, err
		}
		result.PolicyExclusions = len(active)
		result.ExpiredEntries = len(expired)
		for _, entry := range expired {
			log.Warn().Str("id", entry.ID).Str("expires_at", entry.ExpiresAt).Msg("policy exclusion has expired")
		}
	}

	names, manifestPresent, err := s.Manifest.DevDependencies(s.manifestPath(req.Dir, req.ManifestPath))
	if err != nil {
		return ValidateResult{}, err
	}
	result.ManifestPresent = manifestPresent
	result.DevDependencies = len(names)

	return result, nil
}
