package core

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"yarn-audit-gate/internal/types"
)

// RemediationHint says whether upgrading the vulnerable package can clear an
// advisory, based on its patched-versions constraint and the installed
// version seen in the findings.
type RemediationHint struct {
	ModuleName       string
	InstalledVersion string
	PatchedVersions  string
	UpgradeAvailable bool
}

// HintFor evaluates the advisory's patched_versions range against the first
// finding's installed version. Advisories with no patch ("<0.0.0") or with
// unparseable version data yield no hint.
func HintFor(advisory types.Advisory) (RemediationHint, bool) {
	patched := strings.TrimSpace(advisory.PatchedVersions)
	if patched == "" || patched == "<0.0.0" {
		return RemediationHint{}, false
	}
	if len(advisory.Findings) == 0 {
		return RemediationHint{}, false
	}
	installed := strings.TrimSpace(advisory.Findings[0].Version)
	if installed == "" {
		return RemediationHint{}, false
	}
	constraint, err := semver.NewConstraint(patched)
	if err != nil {
		return RemediationHint{}, false
	}
	version, err := semver.NewVersion(installed)
	if err != nil {
		return RemediationHint{}, false
	}
	return RemediationHint{
		ModuleName:       advisory.ModuleName,
		InstalledVersion: installed,
		PatchedVersions:  patched,
		UpgradeAvailable: !constraint.Check(version),
	}, true
}
