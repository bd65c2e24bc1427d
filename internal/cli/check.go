package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alimomennasab/hate-speech-agent/internal/adapter/client"
	"github.com/alimomennasab/hate-speech-agent/internal/infrastructure/config"
	"github.com/alimomennasab/hate-speech-agent/internal/infrastructure/logger"
	"github.com/alimomennasab/hate-speech-agent/internal/usecase"
)

var (
	checkFormat   string
	checkBaseURL  string
	checkDeadline time.Duration
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
	checkCmd.Flags().StringVar(&checkBaseURL, "base-url", "", "Moderation service base URL (overrides config)")
	checkCmd.Flags().DurationVar(&checkDeadline, "deadline", 0, "Maximum wait for a response (overrides config)")
}

var checkCmd = &cobra.Command{
	Use:   "check <text>",
	Short: "Classify one piece of text and print the verdict",
	Long: "Submits the arguments, joined by spaces, to the moderation service and prints\n" +
		"the interpreted verdict. Logs go to stderr.\n\n" +
		"Exit code 0 if the text was not flagged, 2 if flagged, 3 if the service\n" +
		"did not answer before the deadline, 4 on any other failure.",
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyServiceOverrides(&cfg.Service, checkBaseURL, checkDeadline)

	log, err := logger.New(&cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	code, err := checkText(cmd.Context(), cfg.Service, log, strings.Join(args, " "), checkFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if code != ExitOK {
		return &exitError{code: code}
	}
	return nil
}

func applyServiceOverrides(svc *config.ServiceConfig, baseURL string, deadline time.Duration) {
	if baseURL != "" {
		svc.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if deadline > 0 {
		svc.Deadline = deadline
	}
}

// checkText runs one submission to settlement and writes the result to w
func checkText(ctx context.Context, svc config.ServiceConfig, log *zap.Logger, text, format string, w io.Writer) (int, error) {
	classifier := client.NewModerationClassifier(client.NewModerationClient(svc.BaseURL, 0))
	controller := usecase.NewController(classifier, log, usecase.WithDeadline(svc.Deadline))
	checkUC := usecase.NewCheckUsecase(controller, nil, nil, nil, log)

	out, err := checkUC.Check(ctx, &usecase.CheckInput{Text: text})
	if err != nil {
		return ExitError, err
	}

	if err := writeOutput(w, out, format); err != nil {
		return ExitError, err
	}
	return exitCodeFor(out), nil
}
