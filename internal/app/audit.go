package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"yarn-audit-gate/internal/core"
	"yarn-audit-gate/internal/policies"
	"yarn-audit-gate/internal/ports"
	"yarn-audit-gate/internal/shared"
	"yarn-audit-gate/internal/types"
)

const defaultRetryDelay = time.Second
const defaultMaxRetries = 5

// networkFailureMarkers are the substrings that identify a transient
// registry failure in the audit output.
var networkFailureMarkers = []string{
	"ENOTFOUND",
	"ETIMEDOUT",
	"ECONNRESET",
	"ECONNREFUSED",
	"EAI_AGAIN",
	"Request failed",
}

// errNetworkFailure marks an attempt that hit a transient registry failure
// and may be retried.
type errNetworkFailure struct {
	line string
}

func (e *errNetworkFailure) Error() string {
	return "network failure detected in audit output: " + e.line
}

// Audit runs the full pipeline: invoke the audit tool (with bounded retry on
// network failures), classify its output stream, audit exclusion drift, and
// render the report. The returned ReportableCount becomes the process exit
// code.
func (s Service) Audit(ctx context.Context, req AuditRequest) (AuditResult, error) {
	cfg, err := s.resolveRunConfig(req)
	if err != nil {
		return AuditResult{}, err
	}

	sink, err := s.NewSink()
	if err != nil {
		return AuditResult{}, err
	}
	defer func() {
		if err := sink.Remove(); err != nil {
			log.Warn().Err(err).Msg("failed to remove scratch sink")
		}
	}()

	if err := s.runAudit(ctx, req, cfg, sink); err != nil {
		return AuditResult{}, err
	}

	classification, err := core.NewClassifierCore().Classify(ctx, sink, core.ClassifierConfig{
		Threshold:             cfg.threshold,
		Exclusions:            cfg.exclusions,
		DevMatcher:            cfg.devMatcher,
		IgnoreDevDependencies: req.IgnoreDevDependencies,
	})
	if err != nil {
		return AuditResult{}, err
	}

	auditor := core.NewExclusionAuditor()
	missing := auditor.CheckMissing(classification.All, cfg.exclusions)
	if err := auditor.Enforce(missing, cfg.failOnMissing); err != nil {
		return AuditResult{}, err
	}

	report, count, err := core.NewReportCore().Render(classification, req.Format, req.OutputPath == "")
	if err != nil {
		return AuditResult{}, err
	}
	if err := s.ReportOutput.Write(req.OutputPath, report); err != nil {
		return AuditResult{}, err
	}
	if req.Format == types.ReportFormatText && s.Console != nil {
		core.WriteSummaryTable(s.Console, classification)
	}

	return AuditResult{
		ReportableCount:   count,
		SeverityIgnored:   len(classification.SeverityIgnored),
		ExclusionIgnored:  len(classification.ExclusionIgnored),
		DevIgnored:        len(classification.DevIgnored),
		MissingExclusions: missing,
	}, nil
}

// runConfig is the immutable per-run configuration derived once from the
// request and its file collaborators.
type runConfig struct {
	threshold     types.Severity
	exclusions    types.ExclusionSet
	devMatcher    *core.DevDependencyMatcher
	failOnMissing bool
}

func (s Service) resolveRunConfig(req AuditRequest) (runConfig, error) {
	policy, policyPresent, err := s.PolicyFile.Read(s.policyPath(req.Dir, req.PolicyPath))
	if err != nil {
		return runConfig{}, err
	}

	threshold, err := s.resolveThreshold(req.Severity, policy, policyPresent)
	if err != nil {
		return runConfig{}, err
	}

	commandLine, err := types.ParseExclusionList(req.Exclude)
	if err != nil {
		return runConfig{}, err
	}
	iyarcEntries, iyarcPresent, err := s.ExclusionFile.Read(s.iyarcPath(req.Dir, req.IyarcPath))
	if err != nil {
		return runConfig{}, err
	}
	var policyEntries []types.Exclusion
	if policyPresent {
		active, expired, err := s.PolicyFile.ActiveExclusions(policy)
		if err != nil {
			return runConfig{}, err
		}
		for _, entry := range expired {
			log.Warn().Str("id", entry.ID).Str("expires_at", entry.ExpiresAt).Msg("dropping expired policy exclusion")
		}
		policyEntries = active
	}
	exclusions := policies.ResolveExclusionSet(policies.ExclusionSources{
		CommandLine:   commandLine,
		IyarcPresent:  iyarcPresent,
		Iyarc:         iyarcEntries,
		PolicyPresent: policyPresent,
		Policy:        policyEntries,
	})

	var devMatcher *core.DevDependencyMatcher
	if req.IgnoreDevDependencies {
		names, present, err := s.Manifest.DevDependencies(s.manifestPath(req.Dir, req.ManifestPath))
		if err != nil {
			return runConfig{}, err
		}
		if present {
			devMatcher = core.NewDevDependencyMatcher(names)
		}
	}

	failOnMissing := req.FailOnMissingExclusions
	if !failOnMissing && policyPresent {
		failOnMissing = policy.FailOnMissingExclusion
	}

	return runConfig{
		threshold:     threshold,
		exclusions:    exclusions,
		devMatcher:    devMatcher,
		failOnMissing: failOnMissing,
	}, nil
}

func (s Service) resolveThreshold(requested string, policy types.AuditPolicy, policyPresent bool) (types.Severity, error) {
	if strings.TrimSpace(requested) != "" {
		return types.ParseSeverity(requested)
	}
	if policyPresent && policy.Severity != "" {
		return types.ParseSeverity(policy.Severity)
	}
	return types.SeverityInfo, nil
}

// runAudit invokes the subprocess, scans the sink for network-failure
// markers, and retries on a fixed backoff when enabled. Retries are strictly
// sequential; each attempt fully replaces the sink contents.
func (s Service) runAudit(ctx context.Context, req AuditRequest, cfg runConfig, sink ports.SinkPort) error {
	args := []string{"audit", "--json", "--level", string(cfg.threshold)}
	if req.IgnoreDevDependencies {
		args = append(args, "--groups", "dependencies")
	}

	attempts := 0
	operation := func() error {
		attempts++
		status, err := s.AuditCommand.Run(ctx, req.Dir, args, sink)
		if err != nil {
			return backoff.Permanent(err)
		}
		marker, found, err := s.findNetworkFailure(sink)
		if err != nil {
			return backoff.Permanent(err)
		}
		if found {
			log.Warn().Int("attempt", attempts).Str("marker", marker).Msg("audit hit a network failure")
			return &errNetworkFailure{line: marker}
		}
		// Exit status 1 is a tool-internal error, distinct from
		// "vulnerabilities found"; any other status is success-with-output.
		if status == 1 {
			return backoff.Permanent(s.fatalWithOutput(sink, "audit command failed"))
		}
		return nil
	}

	maxRetries := uint64(0)
	if req.RetryOnNetworkFailure {
		maxRetries = uint64(defaultMaxRetries)
		if req.MaxRetries > 0 {
			maxRetries = uint64(req.MaxRetries)
		}
	}
	delay := req.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), maxRetries), ctx)

	err := backoff.Retry(operation, policy)
	var network *errNetworkFailure
	if errors.As(err, &network) {
		contents, readErr := sink.Contents()
		if readErr != nil {
			contents = "(sink unreadable: " + readErr.Error() + ")"
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("network failure persisted after %d attempt(s)", attempts)).
			WithCause(errors.New(shared.Truncate(strings.TrimSpace(contents), maxFatalOutputBytes)))
	}
	return err
}

func (s Service) findNetworkFailure(sink ports.SinkPort) (string, bool, error) {
	var marker string
	err := sink.ForEachLine(func(line string) error {
		if marker != "" {
			return nil
		}
		for _, candidate := range networkFailureMarkers {
			if strings.Contains(line, candidate) {
				marker = line
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return marker, marker != "", nil
}

// maxFatalOutputBytes bounds how much of the audit output rides along on a
// fatal error.
const maxFatalOutputBytes = 8192

func (s Service) fatalWithOutput(sink ports.SinkPort, message string) error {
	contents, readErr := sink.Contents()
	if readErr != nil {
		contents = "(sink unreadable: " + readErr.Error() + ")"
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(message).
		WithCause(errors.New(shared.Truncate(strings.TrimSpace(contents), maxFatalOutputBytes)))
}

func (s Service) iyarcPath(dir string, path string) string {
	if strings.TrimSpace(path) != "" {
		return path
	}
	return filepath.Join(dir, ".iyarc")
}

func (s Service) manifestPath(dir string, path string) string {
	if strings.TrimSpace(path) != "" {
		return path
	}
	return filepath.Join(dir, "package.json")
}

func (s Service) policyPath(dir string, path string) string {
	if strings.TrimSpace(path) != "" {
		return path
	}
	return filepath.Join(dir, "audit-policy.yaml")
}
