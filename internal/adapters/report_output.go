package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"yarn-audit-gate/internal/ports"
)

// ReportOutputAdapter writes the rendered report to a file when a path is
// configured, otherwise to standard output.
type ReportOutputAdapter struct{}

func NewReportOutputAdapter() ReportOutputAdapter {
	return ReportOutputAdapter{}
}

func (a ReportOutputAdapter) Write(path string, content string) error {
	if strings.TrimSpace(path) == "" {
		fmt.Println(content)
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create report directory").
				WithCause(err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write report file").
			WithCause(err)
	}
	return nil
}

var _ ports.ReportOutputPort = ReportOutputAdapter{}
