package app

import (
	"io"
	"os"
	"time"

	"yarn-audit-gate/internal/adapters"
	"yarn-audit-gate/internal/ports"
)

type Service struct {
	AuditCommand  ports.AuditCommandPort
	ExclusionFile ports.ExclusionFilePort
	PolicyFile    ports.PolicyFilePort
	Manifest      ports.ManifestPort
	ReportOutput  ports.ReportOutputPort
	NewSink       func() (ports.SinkPort, error)
	Console       io.Writer
	Clock         func() time.Time
}

func NewService() Service {
	return Service{
		AuditCommand:  adapters.NewYarnCommandAdapter(),
		ExclusionFile: adapters.NewIyarcFileAdapter(),
		PolicyFile:    adapters.NewPolicyFileAdapter(),
		Manifest:      adapters.NewPackageJSONAdapter(),
		ReportOutput:  adapters.NewReportOutputAdapter(),
		NewSink: func() (ports.SinkPort, error) {
			return adapters.NewFileSinkAdapter()
		},
		Console: os.Stdout,
		Clock:   time.Now,
	}
}
