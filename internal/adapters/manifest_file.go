package adapters

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"yarn-audit-gate/internal/ports"
)

// PackageJSONAdapter reads the project manifest for its declared development
// dependency names.
type PackageJSONAdapter struct{}

func NewPackageJSONAdapter() PackageJSONAdapter {
	return PackageJSONAdapter{}
}

type packageManifest struct {
	DevDependencies map[string]string `json:"devDependencies"`
}

func (a PackageJSONAdapter) DevDependencies(path string) ([]string, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read package.json").
			WithCause(err)
	}
	var manifest packageManifest
	if err := json.Unmarshal(content, &manifest); err != nil {
		return nil, true, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse package.json").
			WithCause(err)
	}
	names := make([]string, 0, len(manifest.DevDependencies))
	for name := range manifest.DevDependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, true, nil
}

var _ ports.ManifestPort = PackageJSONAdapter{}
