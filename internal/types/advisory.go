package types

import "encoding/json"

// Advisory is one vulnerability record as reported by the audit tool.
// Advisories are immutable once parsed; the Resolution field is the only
// post-parse annotation, merged in from the sibling resolution record on the
// same output line.
type Advisory struct {
	ID                 int       `json:"id"`
	GithubAdvisoryID   string    `json:"github_advisory_id,omitempty"`
	ModuleName         string    `json:"module_name"`
	Severity           Severity  `json:"severity"`
	URL                string    `json:"url"`
	Title              string    `json:"title,omitempty"`
	VulnerableVersions string    `json:"vulnerable_versions,omitempty"`
	PatchedVersions    string    `json:"patched_versions,omitempty"`
	Findings           []Finding `json:"findings"`

	Resolution Resolution `json:"-"`
}

// Finding is one vulnerable dependency occurrence within an advisory. Each
// path string describes one route through the dependency tree to the
// vulnerable package, nodes joined by ">".
type Finding struct {
	Version string   `json:"version,omitempty"`
	Paths   []string `json:"paths"`
}

// Resolution describes how the vulnerable package is reached: through a dev
// dependency, an optional dependency, or a bundled one.
type Resolution struct {
	ID       int    `json:"id"`
	Path     string `json:"path"`
	Dev      bool   `json:"dev"`
	Optional bool   `json:"optional"`
	Bundled  bool   `json:"bundled"`
}

// AllPaths returns the union of dependency paths across all findings, in
// first-seen order with duplicates removed.
func (a Advisory) AllPaths() []string {
	seen := map[string]struct{}{}
	var paths []string
	for _, finding := range a.Findings {
		for _, path := range finding.Paths {
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}
	return paths
}

const RecordTypeAdvisory = "auditAdvisory"

// RecordEnvelope is the line-level wrapper around every record in the audit
// output stream. Data stays raw until the type tag selects a shape.
type RecordEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// AdvisoryRecord is the payload of an auditAdvisory line.
type AdvisoryRecord struct {
	Resolution Resolution `json:"resolution"`
	Advisory   Advisory   `json:"advisory"`
}

// SeverityCounts is the vulnerability tally by severity carried in the audit
// summary. It is recomputed from the reportable bucket before being emitted,
// never trusted from the upstream tool.
type SeverityCounts struct {
	Info     int `json:"info"`
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

func (c *SeverityCounts) Add(severity Severity) {
	switch severity {
	case SeverityInfo:
		c.Info++
	case SeverityLow:
		c.Low++
	case SeverityModerate:
		c.Moderate++
	case SeverityHigh:
		c.High++
	case SeverityCritical:
		c.Critical++
	}
}

func (c SeverityCounts) Total() int {
	return c.Info + c.Low + c.Moderate + c.High + c.Critical
}

// AuditSummary is the tool's own run-level record, located as the single
// non-advisory record in the output stream.
type AuditSummary struct {
	Vulnerabilities      SeverityCounts `json:"vulnerabilities"`
	Dependencies         int            `json:"dependencies"`
	DevDependencies      int            `json:"devDependencies"`
	OptionalDependencies int            `json:"optionalDependencies"`
	TotalDependencies    int            `json:"totalDependencies"`
}
