package adapters

import (
	"context"
	"errors"
	"os/exec"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"yarn-audit-gate/internal/ports"
	"yarn-audit-gate/internal/shared"
)

// YarnCommandAdapter runs the yarn binary with both output streams redirected
// into the scratch sink, so error text and JSON records interleave in one
// stream the way the downstream classifier expects.
type YarnCommandAdapter struct {
	Binary string
}

func NewYarnCommandAdapter() YarnCommandAdapter {
	return YarnCommandAdapter{Binary: "yarn"}
}

func (a YarnCommandAdapter) Run(ctx context.Context, dir string, args []string, sink ports.SinkPort) (int, error) {
	writer, err := sink.OpenWriter()
	if err != nil {
		return 0, err
	}
	defer func() { _ = writer.Close() }()

	binary := a.Binary
	if binary == "" {
		binary = "yarn"
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	cmd.Stdout = writer
	cmd.Stderr = writer

	err = cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	contents, _ := sink.Contents()
	return 0, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to spawn audit command").
		WithCause(shared.CommandError([]byte(contents), err))
}

var _ ports.AuditCommandPort = YarnCommandAdapter{}
