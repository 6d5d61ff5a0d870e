//go:build integration

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"yarn-audit-gate/internal/app"
	"yarn-audit-gate/internal/types"
	"yarn-audit-gate/tests/testutil"
)

// payloadServerScript serves a canned audit stream over HTTP, standing in for
// the registry-backed audit endpoint.
const payloadServerScript = `
import http.server, socketserver

PAYLOAD = '''%s'''

class Handler(http.server.BaseHTTPRequestHandler):
    def do_GET(self):
        body = PAYLOAD.encode()
        self.send_response(200)
        self.send_header('Content-Length', str(len(body)))
        self.end_headers()
        self.wfile.write(body)

    def log_message(self, *args):
        pass

with socketserver.TCPServer(('', 8080), Handler) as server:
    server.serve_forever()
`

func startPayloadServer(ctx context.Context, t *testing.T, payload string) (string, func()) {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "python:3.12-alpine",
		ExposedPorts: []string{"8080/tcp"},
		Cmd:          []string{"python", "-c", fmt.Sprintf(payloadServerScript, payload)},
		WaitingFor:   wait.ForListeningPort("8080/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8080/tcp")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())
	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return endpoint, cleanup
}

// writeFetchingYarn writes a fake yarn that fetches the audit stream from the
// payload server, printing the same network-failure marker real yarn prints
// when the fetch fails.
func writeFetchingYarn(t *testing.T, dir string, endpoint string) string {
	t.Helper()
	body := fmt.Sprintf(`if ! curl -fsS %q; then
  echo "error An unexpected error occurred: getaddrinfo ENOTFOUND registry.yarnpkg.com"
  exit 1
fi
exit 2
`, endpoint)
	return testutil.WriteFakeYarnScript(t, dir, body)
}

func TestAuditAgainstPayloadServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers test in short mode")
	}

	ctx := t.Context()
	payload := testutil.AuditPayload(
		testutil.AdvisoryLine(1065, "high", "lodash", "lodash"),
		testutil.AdvisoryLine(88, "low", "qs", "express>qs"),
		testutil.SummaryLine(10, 2),
	)
	endpoint, cleanup := startPayloadServer(ctx, t, payload)
	t.Cleanup(cleanup)

	project := testutil.WriteProject(t, `{"dependencies": {"lodash": "^4.17.15"}}`)
	yarn := writeFetchingYarn(t, t.TempDir(), endpoint)

	service := newPipelineService(t, yarn, nil)
	result, err := service.Audit(ctx, app.AuditRequest{
		Dir:        project,
		Severity:   "moderate",
		Format:     types.ReportFormatJSON,
		OutputPath: filepath.Join(t.TempDir(), "report.json"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ReportableCount)
	assert.Equal(t, 1, result.SeverityIgnored)
}

func TestAuditPayloadServerUnreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers test in short mode")
	}

	ctx := t.Context()
	payload := testutil.AuditPayload(testutil.SummaryLine(1, 0))
	endpoint, cleanup := startPayloadServer(ctx, t, payload)
	cleanup() // tear the server down so every fetch fails

	project := testutil.WriteProject(t, `{"dependencies": {"lodash": "^4.17.15"}}`)
	yarn := writeFetchingYarn(t, t.TempDir(), endpoint)

	service := newPipelineService(t, yarn, nil)
	_, err := service.Audit(ctx, app.AuditRequest{
		Dir:                   project,
		Format:                types.ReportFormatJSON,
		OutputPath:            filepath.Join(t.TempDir(), "report.json"),
		RetryOnNetworkFailure: true,
		MaxRetries:            1,
		RetryDelay:            10 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}
