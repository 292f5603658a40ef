package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"facekiosk/internal/ui/plain"
	"facekiosk/pkg/recognition"
)

func newHealthCommand(std streams) *cobra.Command {
	var flags configFlags
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Query the recognition service health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(nil)
			if err != nil {
				return usageError(err)
			}
			client := recognition.New(cfg.Service.BaseURL, cfg.ClientOptions())
			health, err := client.Health(cmd.Context())
			if err != nil {
				return &exitError{code: ExitError, err: err}
			}
			if asJSON {
				encoder := json.NewEncoder(std.stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(health); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(std.stdout, plain.FormatHealth(health, nil))
			}
			if !health.Healthy() {
				return silentExit(ExitError)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the reply as JSON")
	return cmd
}
