package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"yarn-audit-gate/internal/app"
)

type validateOptions struct {
	Dir      string
	Iyarc    string
	Manifest string
	Policy   string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate exclusion and policy configuration without auditing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", ".", "Project directory")
	cmd.Flags().StringVar(&opts.Iyarc, "iyarc", "", "Exclusion file path (default <dir>/.iyarc)")
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "Manifest path (default <dir>/package.json)")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "Audit policy path (default <dir>/audit-policy.yaml)")
	return cmd
}

func runValidate(cmd *cobra.Command, opts validateOptions) error {
	service := newAppService()
	result, err := service.Validate(app.ValidateRequest{
		Dir:          opts.Dir,
		IyarcPath:    opts.Iyarc,
		ManifestPath: opts.Manifest,
		PolicyPath:   opts.Policy,
	})
	if err != nil {
		return err
	}
	if result.IyarcPresent {
		fmt.Printf("iyarc: %d exclusion(s)\n", result.IyarcEntries)
	}
	if result.PolicyPresent {
		fmt.Printf("policy: %d active exclusion(s), %d expired\n", result.PolicyExclusions, result.ExpiredEntries)
	}
	if result.ManifestPresent {
		fmt.Printf("manifest: %d dev dependencies\n", result.DevDependencies)
	}
	if !result.IyarcPresent && !result.PolicyPresent && !result.ManifestPresent {
		fmt.Println("no configuration files found")
	}
	return nil
}
