package ports

import "context"

// AuditCommandPort launches the external audit subprocess with combined
// stdout and stderr redirected into the sink, and reports its raw exit
// status. Spawn failures are errors; non-zero exit statuses are not.
type AuditCommandPort interface {
	Run(ctx context.Context, dir string, args []string, sink SinkPort) (int, error)
}
