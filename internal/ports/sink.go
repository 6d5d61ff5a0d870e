package ports

import "io"

// SinkPort is the scratch byte store holding the raw audit output for the
// duration of one run. It has a single writer (the invoker, during subprocess
// execution) and any number of sequential readers afterwards.
type SinkPort interface {
	// OpenWriter truncates the sink and returns a handle for subprocess
	// output redirection.
	OpenWriter() (io.WriteCloser, error)
	// ForEachLine streams the sink contents line by line in file order. No
	// line is buffered beyond its own callback. May be called multiple
	// times per run.
	ForEachLine(fn func(line string) error) error
	// Contents returns the full sink text, used only for fatal error
	// context where the whole output is surfaced.
	Contents() (string, error)
	// Remove deletes the backing store. Called exactly once at run end.
	Remove() error
}
