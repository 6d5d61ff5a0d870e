package ports

// ReportOutputPort writes the rendered report to its destination: a file
// when a path is configured, standard output otherwise.
type ReportOutputPort interface {
	Write(path string, content string) error
}
