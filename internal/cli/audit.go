package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"yarn-audit-gate/internal/app"
	"yarn-audit-gate/internal/types"
)

type auditOptions struct {
	Dir                     string
	Severity                string
	IgnoreDevDeps           bool
	RetryOnNetworkFailure   bool
	MaxRetries              int
	RetryDelayMs            int
	Exclude                 []string
	FailOnMissingExclusions bool
	Format                  string
	Output                  string
	Iyarc                   string
	Manifest                string
	Policy                  string
}

func newAuditCommand() *cobra.Command {
	opts := auditOptions{}
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run yarn audit and gate on the filtered advisory count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAudit(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", ".", "Project directory containing package.json")
	cmd.Flags().StringVarP(&opts.Severity, "severity", "s", "", "Minimum severity to report (info, low, moderate, high, critical)")
	cmd.Flags().BoolVar(&opts.IgnoreDevDeps, "ignore-dev-deps", false, "Ignore advisories reachable only through dev dependencies")
	cmd.Flags().BoolVar(&opts.RetryOnNetworkFailure, "retry-on-network-failure", false, "Retry the audit when the registry is unreachable")
	cmd.Flags().IntVar(&opts.MaxRetries, "max-retries", 0, "Maximum retry attempts on network failure (0 = default)")
	cmd.Flags().IntVar(&opts.RetryDelayMs, "retry-delay-ms", 0, "Delay between retry attempts in milliseconds (0 = default)")
	cmd.Flags().StringSliceVarP(&opts.Exclude, "exclude", "e", nil, "Advisory ids or GHSA codes to exclude (CSV, repeatable)")
	cmd.Flags().BoolVar(&opts.FailOnMissingExclusions, "fail-on-missing-exclusions", false, "Fail when a configured exclusion matches no advisory")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "Report format (text, json, ndjson, sarif)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Report file path (stdout when empty)")
	cmd.Flags().StringVar(&opts.Iyarc, "iyarc", "", "Exclusion file path (default <dir>/.iyarc)")
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "Manifest path (default <dir>/package.json)")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "Audit policy path (default <dir>/audit-policy.yaml)")
	_ = viper.BindPFlag("dir", cmd.Flags().Lookup("dir"))
	_ = viper.BindPFlag("severity", cmd.Flags().Lookup("severity"))
	_ = viper.BindPFlag("ignore_dev_deps", cmd.Flags().Lookup("ignore-dev-deps"))
	_ = viper.BindPFlag("retry_on_network_failure", cmd.Flags().Lookup("retry-on-network-failure"))
	_ = viper.BindPFlag("max_retries", cmd.Flags().Lookup("max-retries"))
	_ = viper.BindPFlag("retry_delay_ms", cmd.Flags().Lookup("retry-delay-ms"))
	_ = viper.BindPFlag("exclude", cmd.Flags().Lookup("exclude"))
	_ = viper.BindPFlag("fail_on_missing_exclusions", cmd.Flags().Lookup("fail-on-missing-exclusions"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runAudit(ctx context.Context, cmd *cobra.Command, opts auditOptions) error {
	format, err := types.ParseReportFormat(resolveString(cmd, opts.Format, "format", "format"))
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Audit(ctx, app.AuditRequest{
		Dir:                     resolveString(cmd, opts.Dir, "dir", "dir"),
		Severity:                resolveString(cmd, opts.Severity, "severity", "severity"),
		IgnoreDevDependencies:   resolveBool(cmd, opts.IgnoreDevDeps, "ignore_dev_deps", "ignore-dev-deps"),
		RetryOnNetworkFailure:   resolveBool(cmd, opts.RetryOnNetworkFailure, "retry_on_network_failure", "retry-on-network-failure"),
		MaxRetries:              resolveInt(cmd, opts.MaxRetries, "max_retries", "max-retries"),
		RetryDelay:              time.Duration(resolveInt(cmd, opts.RetryDelayMs, "retry_delay_ms", "retry-delay-ms")) * time.Millisecond,
		Exclude:                 resolveStrings(cmd, opts.Exclude, "exclude", "exclude"),
		FailOnMissingExclusions: resolveBool(cmd, opts.FailOnMissingExclusions, "fail_on_missing_exclusions", "fail-on-missing-exclusions"),
		Format:                  format,
		OutputPath:              resolveString(cmd, opts.Output, "output", "output"),
		IyarcPath:               opts.Iyarc,
		ManifestPath:            opts.Manifest,
		PolicyPath:              opts.Policy,
	})
	if err != nil {
		return err
	}
	auditExitCode = result.ReportableCount
	return nil
}

func newAppService() app.Service {
	return app.NewService()
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return value
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	if viper.IsSet(key) {
		return viper.GetStringSlice(key)
	}
	return values
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return value
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return value
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
