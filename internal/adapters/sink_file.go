package adapters

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"yarn-audit-gate/internal/ports"
)

// Audit advisory lines can be large; one advisory with many findings easily
// exceeds bufio.Scanner's default token size.
const maxSinkLineBytes = 64 * 1024 * 1024

// FileSinkAdapter backs the scratch sink with a single temporary file,
// created once per run and removed exactly once at run end. The file is
// truncated on every OpenWriter call, so each retry attempt fully replaces
// the previous attempt's contents.
type FileSinkAdapter struct {
	path string
}

func NewFileSinkAdapter() (*FileSinkAdapter, error) {
	file, err := os.CreateTemp("", "yarn-audit-gate-*.ndjson")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create scratch sink").
			WithCause(err)
	}
	path := file.Name()
	if err := file.Close(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to close scratch sink").
			WithCause(err)
	}
	return &FileSinkAdapter{path: path}, nil
}

func (a *FileSinkAdapter) Path() string {
	return a.path
}

func (a *FileSinkAdapter) OpenWriter() (io.WriteCloser, error) {
	file, err := os.OpenFile(a.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open scratch sink for writing").
			WithCause(err)
	}
	return file, nil
}

func (a *FileSinkAdapter) ForEachLine(fn func(line string) error) error {
	file, err := os.Open(a.path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open scratch sink for reading").
			WithCause(err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxSinkLineBytes)
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stream scratch sink").
			WithCause(err)
	}
	return nil
}

func (a *FileSinkAdapter) Contents() (string, error) {
	content, err := os.ReadFile(a.path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read scratch sink").
			WithCause(err)
	}
	return string(content), nil
}

func (a *FileSinkAdapter) Remove() error {
	err := os.Remove(a.path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	// Windows keeps the file locked while any handle lingers; fall back to
	// the shell removal command there.
	if runtime.GOOS == "windows" {
		if delErr := exec.Command("cmd", "/c", "del", "/f", a.path).Run(); delErr == nil {
			return nil
		}
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to remove scratch sink").
		WithCause(err)
}

var _ ports.SinkPort = (*FileSinkAdapter)(nil)
