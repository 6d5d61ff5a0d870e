package adapters

import (
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"yarn-audit-gate/internal/ports"
	"yarn-audit-gate/internal/types"
)

// IyarcFileAdapter reads the .iyarc exclusion file: each non-comment line is
// a CSV list of advisory identifiers, comments start with "#".
type IyarcFileAdapter struct{}

func NewIyarcFileAdapter() IyarcFileAdapter {
	return IyarcFileAdapter{}
}

func (a IyarcFileAdapter) Read(path string) ([]types.Exclusion, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read exclusion file").
			WithCause(err)
	}
	var entries []types.Exclusion
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		parsed, err := types.ParseExclusionList([]string{trimmed})
		if err != nil {
			return nil, true, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid exclusion file " + path).
				WithCause(err)
		}
		entries = append(entries, parsed...)
	}
	return entries, true, nil
}

var _ ports.ExclusionFilePort = IyarcFileAdapter{}
