package ports

// ManifestPort reads the project manifest (package.json).
type ManifestPort interface {
	// DevDependencies returns the declared development dependency names.
	// Missing manifest is reported through the second return value.
	DevDependencies(path string) ([]string, bool, error)
}
