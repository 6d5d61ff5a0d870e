package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/fatih/color"
	"github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/rs/zerolog/log"

	"yarn-audit-gate/internal/types"
)

const toolName = "yarn-audit-gate"
const toolInformationURI = "https://github.com/yarn-audit-gate/yarn-audit-gate"

// severityColumnWidth fits the widest severity names (CRITICAL, MODERATE).
const severityColumnWidth = 8

type ReportCore struct{}

func NewReportCore() ReportCore {
	return ReportCore{}
}

// Render turns the reportable bucket into the requested report format and
// logs the per-bucket counts. The returned count is the number of reportable
// advisories, which becomes the process exit code.
func (r ReportCore) Render(classification Classification, format types.ReportFormat, colorize bool) (string, int, error) {
	r.logCounts(classification)
	var content string
	var err error
	switch format {
	case types.ReportFormatText:
		content = r.renderText(classification, colorize)
	case types.ReportFormatJSON:
		content, err = r.renderJSON(classification)
	case types.ReportFormatNDJSON:
		content, err = r.renderNDJSON(classification)
	case types.ReportFormatSARIF:
		content, err = r.renderSARIF(classification)
	default:
		err = errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown report format: " + string(format))
	}
	if err != nil {
		return "", 0, err
	}
	return content, len(classification.Reportable), nil
}

func (r ReportCore) logCounts(classification Classification) {
	if count := len(classification.DevIgnored); count > 0 {
		log.Info().Int("count", count).Msg("dev dependency advisories ignored")
	}
	if count := len(classification.SeverityIgnored); count > 0 {
		log.Info().Int("count", count).Msg("advisories below severity threshold ignored")
	}
	if count := len(classification.ExclusionIgnored); count > 0 {
		log.Info().Int("count", count).Msg("excluded advisories ignored")
	}
	log.Info().Int("count", len(classification.Reportable)).Msg("reportable advisories")
}

func (r ReportCore) renderText(classification Classification, colorize bool) string {
	if len(classification.Reportable) == 0 {
		return "No vulnerabilities found."
	}
	var paragraphs []string
	for _, advisory := range classification.Reportable {
		severity := fmt.Sprintf("%-*s", severityColumnWidth, strings.ToUpper(string(advisory.Severity)))
		if colorize {
			severity = severityColor(advisory.Severity).Sprint(severity)
		}
		lines := []string{
			severity + " " + strings.Join(advisory.AllPaths(), ", "),
			advisory.URL,
		}
		if hint, ok := HintFor(advisory); ok && hint.UpgradeAvailable {
			lines = append(lines, fmt.Sprintf("upgrade %s %s to %s", hint.ModuleName, hint.InstalledVersion, hint.PatchedVersions))
		}
		paragraphs = append(paragraphs, strings.Join(lines, "\n"))
	}
	return strings.Join(paragraphs, "\n\n")
}

func severityColor(severity types.Severity) *color.Color {
	switch severity {
	case types.SeverityCritical, types.SeverityHigh:
		return color.New(color.FgRed, color.Bold)
	case types.SeverityModerate:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

type reportEnvelope struct {
	Type string             `json:"type"`
	Data reportEnvelopeData `json:"data"`
}

type reportEnvelopeData struct {
	Resolution types.Resolution `json:"resolution"`
	Advisory   types.Advisory   `json:"advisory"`
}

type summaryEnvelope struct {
	Type string             `json:"type"`
	Data types.AuditSummary `json:"data"`
}

const summaryRecordType = "auditSummary"

// envelopes rebuilds the wrapped tool's native record shapes from the
// reportable bucket. The resolution path carries only the first finding's
// first path; alternate routes to the same package are listed in the
// advisory's findings.
func (r ReportCore) envelopes(classification Classification) ([]json.RawMessage, error) {
	var records []json.RawMessage
	for _, advisory := range classification.Reportable {
		resolution := advisory.Resolution
		if len(advisory.Findings) > 0 && len(advisory.Findings[0].Paths) > 0 {
			resolution.Path = advisory.Findings[0].Paths[0]
		}
		resolution.ID = advisory.ID
		encoded, err := json.Marshal(reportEnvelope{
			Type: types.RecordTypeAdvisory,
			Data: reportEnvelopeData{Resolution: resolution, Advisory: advisory},
		})
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode advisory " + strconv.Itoa(advisory.ID)).
				WithCause(err)
		}
		records = append(records, encoded)
	}

	summary := types.AuditSummary{}
	if classification.Summary != nil {
		summary = *classification.Summary
	}
	summary.Vulnerabilities = RecomputeSeverityCounts(classification.Reportable)
	encoded, err := json.Marshal(summaryEnvelope{Type: summaryRecordType, Data: summary})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode audit summary").
			WithCause(err)
	}
	return append(records, encoded), nil
}

func (r ReportCore) renderJSON(classification Classification) (string, error) {
	records, err := r.envelopes(classification)
	if err != nil {
		return "", err
	}
	encoded, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode report").
			WithCause(err)
	}
	return string(encoded), nil
}

func (r ReportCore) renderNDJSON(classification Classification) (string, error) {
	records, err := r.envelopes(classification)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(records))
	for _, record := range records {
		lines = append(lines, string(record))
	}
	return strings.Join(lines, "\n"), nil
}

func (r ReportCore) renderSARIF(classification Classification) (string, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create sarif report").
			WithCause(err)
	}
	run := sarif.NewRunWithInformationURI(toolName, toolInformationURI)
	for _, advisory := range classification.Reportable {
		ruleID := advisory.GithubAdvisoryID
		if ruleID == "" {
			ruleID = strconv.Itoa(advisory.ID)
		}
		rule := run.AddRule(ruleID).
			WithDescription(advisory.Title).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: sarifLevel(advisory.Severity),
			})
		for _, path := range advisory.AllPaths() {
			location := sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri("package.json")),
			)
			message := advisory.Title
			if message == "" {
				message = advisory.ModuleName
			}
			result := sarif.NewRuleResult(rule.ID).
				WithMessage(sarif.NewTextMessage(message + " via " + path)).
				WithLevel(sarifLevel(advisory.Severity)).
				WithLocations([]*sarif.Location{location})
			run.AddResult(result)
		}
	}
	report.AddRun(run)

	var buffer bytes.Buffer
	if err := report.PrettyWrite(&buffer); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode sarif report").
			WithCause(err)
	}
	return buffer.String(), nil
}

func sarifLevel(severity types.Severity) string {
	switch severity {
	case types.SeverityCritical, types.SeverityHigh:
		return "error"
	case types.SeverityModerate:
		return "warning"
	default:
		return "note"
	}
}

// RecomputeSeverityCounts derives the summary's vulnerability tally from the
// reportable bucket instead of trusting the upstream tool's own counts.
func RecomputeSeverityCounts(reportable []types.Advisory) types.SeverityCounts {
	counts := types.SeverityCounts{}
	for _, advisory := range reportable {
		counts.Add(advisory.Severity)
	}
	return counts
}
