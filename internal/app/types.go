package app

import (
	"time"

	"yarn-audit-gate/internal/types"
)

type AuditRequest struct {
	Dir                     string
	Severity                string
	IgnoreDevDependencies   bool
	RetryOnNetworkFailure   bool
	MaxRetries              int
	RetryDelay              time.Duration
	Exclude                 []string
	FailOnMissingExclusions bool
	Format                  types.ReportFormat
	OutputPath              string
	IyarcPath               string
	ManifestPath            string
	PolicyPath              string
}

type AuditResult struct {
	ReportableCount   int
	SeverityIgnored   int
	ExclusionIgnored  int
	DevIgnored        int
	MissingExclusions []string
}

type ValidateRequest struct {
	Dir          string
	IyarcPath    string
	ManifestPath string
	PolicyPath   string
}

type ValidateResult struct {
	IyarcPresent     bool
	IyarcEntries     int
	PolicyPresent    bool
	PolicyExclusions int
	ExpiredEntries   int
	ManifestPresent  bool
	DevDependencies  int
}
