package adapters

import (
	"os"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"yarn-audit-gate/internal/ports"
	"yarn-audit-gate/internal/types"
)

// PolicyFileAdapter reads audit-policy.yaml, the structured alternative to
// .iyarc: exclusions carry a reason and an optional expiry, and the file can
// set run defaults.
type PolicyFileAdapter struct {
	Clock func() time.Time
}

func NewPolicyFileAdapter() PolicyFileAdapter {
	return PolicyFileAdapter{Clock: time.Now}
}

func (a PolicyFileAdapter) Read(path string) (types.AuditPolicy, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.AuditPolicy{}, false, nil
		}
		return types.AuditPolicy{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read audit policy").
			WithCause(err)
	}
	var policy types.AuditPolicy
	if err := yaml.Unmarshal(content, &policy); err != nil {
		return types.AuditPolicy{}, true, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse audit policy yaml").
			WithCause(err)
	}
	if policy.Severity != "" {
		if _, err := types.ParseSeverity(policy.Severity); err != nil {
			return types.AuditPolicy{}, true, err
		}
	}
	return policy, true, nil
}

func (a PolicyFileAdapter) ActiveExclusions(policy types.AuditPolicy) ([]types.Exclusion, []types.PolicyExclusion, error) {
	now := time.Now()
	if a.Clock != nil {
		now = a.Clock()
	}
	var active []types.Exclusion
	var expired []types.PolicyExclusion
	for _, entry := range policy.Exclusions {
		if a.expired(entry, now) {
			expired = append(expired, entry)
			continue
		}
		parsed, err := types.ParseExclusion(entry.ID)
		if err != nil {
			return nil, nil, err
		}
		active = append(active, parsed)
	}
	return active, expired, nil
}

func (a PolicyFileAdapter) expired(entry types.PolicyExclusion, now time.Time) bool {
	if entry.ExpiresAt == "" {
		return false
	}
	expiry := parseTimeFlexible(entry.ExpiresAt)
	if expiry.IsZero() {
		return false
	}
	return expiry.Before(now)
}

var _ ports.PolicyFilePort = PolicyFileAdapter{}
