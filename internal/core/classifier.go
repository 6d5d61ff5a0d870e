package core

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"yarn-audit-gate/internal/types"
)

// LineSource is the lazy line stream over the scratch sink.
type LineSource interface {
	ForEachLine(fn func(line string) error) error
}

// ClassifierConfig is the immutable per-run configuration the classifier
// operates under.
type ClassifierConfig struct {
	Threshold             types.Severity
	Exclusions            types.ExclusionSet
	DevMatcher            *DevDependencyMatcher
	IgnoreDevDependencies bool
}

// Classification holds the advisory buckets for one run. An advisory may
// appear in several ignored buckets at once, but appears in Reportable only
// when it matches none of the ignore conditions.
type Classification struct {
	All              []types.Advisory
	Reportable       []types.Advisory
	SeverityIgnored  []types.Advisory
	ExclusionIgnored []types.Advisory
	DevIgnored       []types.Advisory
	DevIDs           []int
	Summary          *types.AuditSummary
}

type ClassifierCore struct{}

func NewClassifierCore() ClassifierCore {
	return ClassifierCore{}
}

// Classify streams the audit output once, parsing each line as one JSON
// record. Advisory records are bucketed; the single non-advisory record is
// retained as the run summary. A line that is not valid JSON aborts the run,
// since classification cannot proceed with gaps.
func (c ClassifierCore) Classify(ctx context.Context, source LineSource, cfg ClassifierConfig) (Classification, error) {
	assert.NotEmpty(ctx, string(cfg.Threshold), "severity threshold must be set")

	result := Classification{}
	lineNo := 0
	err := source.ForEachLine(func(line string) error {
		lineNo++
		if strings.TrimSpace(line) == "" {
			return nil
		}
		var envelope types.RecordEnvelope
		if err := json.Unmarshal([]byte(line), &envelope); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("malformed audit record on line " + strconv.Itoa(lineNo)).
				WithCause(err)
		}
		if envelope.Type != types.RecordTypeAdvisory {
			c.absorbSummary(&result, envelope, lineNo)
			return nil
		}
		var record types.AdvisoryRecord
		if err := json.Unmarshal(envelope.Data, &record); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("malformed advisory record on line " + strconv.Itoa(lineNo)).
				WithCause(err)
		}
		advisory := record.Advisory
		advisory.Resolution = record.Resolution
		c.bucket(&result, advisory, cfg)
		return nil
	})
	if err != nil {
		return Classification{}, err
	}
	return result, nil
}

func (c ClassifierCore) bucket(result *Classification, advisory types.Advisory, cfg ClassifierConfig) {
	result.All = append(result.All, advisory)

	belowThreshold := advisory.Severity.Below(cfg.Threshold)
	excluded := cfg.Exclusions.Contains(advisory)
	dev := cfg.DevMatcher.Matches(advisory)

	if dev {
		result.DevIgnored = append(result.DevIgnored, advisory)
		result.DevIDs = append(result.DevIDs, advisory.ID)
	}
	if belowThreshold {
		result.SeverityIgnored = append(result.SeverityIgnored, advisory)
	}
	if excluded && !belowThreshold {
		result.ExclusionIgnored = append(result.ExclusionIgnored, advisory)
	}
	if !belowThreshold && !excluded && !(dev && cfg.IgnoreDevDependencies) {
		result.Reportable = append(result.Reportable, advisory)
	}
}

func (c ClassifierCore) absorbSummary(result *Classification, envelope types.RecordEnvelope, lineNo int) {
	var summary types.AuditSummary
	if err := json.Unmarshal(envelope.Data, &summary); err != nil {
		// Non-advisory, non-summary noise (e.g. a warning record) is
		// skipped; only audit records need to be well formed.
		log.Debug().Int("line", lineNo).Str("type", envelope.Type).Msg("skipping non-summary record")
		return
	}
	result.Summary = &summary
}
