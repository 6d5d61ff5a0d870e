package ports

import "yarn-audit-gate/internal/types"

// ExclusionFilePort reads the .iyarc exclusion file. Missing file is
// reported through the second return value, not as an error.
type ExclusionFilePort interface {
	Read(path string) ([]types.Exclusion, bool, error)
}

// PolicyFilePort reads the audit-policy.yaml project policy file.
type PolicyFilePort interface {
	Read(path string) (types.AuditPolicy, bool, error)
	// ActiveExclusions filters out expired policy exclusions and parses the
	// remainder into exclusion entries. Expired entries are returned
	// separately so callers can warn about them.
	ActiveExclusions(policy types.AuditPolicy) ([]types.Exclusion, []types.PolicyExclusion, error)
}
