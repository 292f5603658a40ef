package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"facekiosk/internal/config"
)

// configFlags are the flags shared by commands that talk to the service.
type configFlags struct {
	path    string
	baseURL string
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "config", "", "path to the YAML config (default "+config.DefaultFileName+" if present)")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "recognition service base URL")
}

// load reads the config file, then applies flag overrides. An explicit
// --config must exist.
func (f *configFlags) load(apply func(*config.Config)) (config.Config, error) {
	path := strings.TrimSpace(f.path)
	cfg, err := config.Load(path, path != "")
	if err != nil {
		return config.Config{}, err
	}
	if f.baseURL != "" {
		cfg.Service.BaseURL = f.baseURL
	}
	if apply != nil {
		apply(&cfg)
	}
	config.Normalize(&cfg)
	if err := config.Validate(&cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
