package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/alimomennasab/hate-speech-agent/internal/adapter/client"
	"github.com/alimomennasab/hate-speech-agent/internal/domain/service"
	"github.com/alimomennasab/hate-speech-agent/internal/infrastructure/config"
)

const healthTimeout = 10 * time.Second

var healthBaseURL string

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().StringVar(&healthBaseURL, "base-url", "", "Moderation service base URL (overrides config)")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the moderation service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyServiceOverrides(&cfg.Service, healthBaseURL, 0)

		checker := client.NewModerationClassifier(client.NewModerationClient(cfg.Service.BaseURL, 0))
		return probe(cmd.Context(), checker, cfg.Service.BaseURL, cmd.OutOrStdout())
	},
}

func probe(ctx context.Context, checker service.HealthChecker, baseURL string, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if err := checker.Health(ctx); err != nil {
		return fmt.Errorf("moderation service at %s: %w", baseURL, err)
	}
	fmt.Fprintf(w, "moderation service at %s: ok\n", baseURL)
	return nil
}
