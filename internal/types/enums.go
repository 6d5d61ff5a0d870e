package types

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRanks orders severities from least to most severe. An advisory is
// severity-ignored iff its rank is strictly below the threshold rank.
var severityRanks = map[Severity]int{
	SeverityInfo:     0,
	SeverityLow:      1,
	SeverityModerate: 2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

func Severities() []Severity {
	return []Severity{SeverityInfo, SeverityLow, SeverityModerate, SeverityHigh, SeverityCritical}
}

func ParseSeverity(value string) (Severity, error) {
	severity := Severity(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := severityRanks[severity]; !ok {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown severity: " + value + " (expected info, low, moderate, high, or critical)")
	}
	return severity, nil
}

func (s Severity) Rank() int {
	return severityRanks[s]
}

func (s Severity) Below(threshold Severity) bool {
	return s.Rank() < threshold.Rank()
}

type ReportFormat string

const (
	ReportFormatText   ReportFormat = "text"
	ReportFormatJSON   ReportFormat = "json"
	ReportFormatNDJSON ReportFormat = "ndjson"
	ReportFormatSARIF  ReportFormat = "sarif"
)

func ParseReportFormat(value string) (ReportFormat, error) {
	format := ReportFormat(strings.ToLower(strings.TrimSpace(value)))
	switch format {
	case ReportFormatText, ReportFormatJSON, ReportFormatNDJSON, ReportFormatSARIF:
		return format, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown report format: " + value + " (expected text, json, ndjson, or sarif)")
	}
}

// ExclusionOrigin records which collaborator supplied the exclusion set.
type ExclusionOrigin string

const (
	ExclusionOriginNone        ExclusionOrigin = "none"
	ExclusionOriginCommandLine ExclusionOrigin = "command-line"
	ExclusionOriginIyarc       ExclusionOrigin = "iyarc"
	ExclusionOriginPolicy      ExclusionOrigin = "policy"
)
