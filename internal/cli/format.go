package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alimomennasab/hate-speech-agent/internal/domain/entity"
	"github.com/alimomennasab/hate-speech-agent/internal/usecase"
)

// Exit codes for checker check
const (
	ExitOK       = 0
	ExitError    = 1
	ExitFlagged  = 2
	ExitTimedOut = 3
	ExitFailed   = 4
)

func exitCodeFor(out *usecase.CheckOutput) int {
	switch entity.DispositionKind(out.Disposition) {
	case entity.DispositionSuccess:
		if out.Verdict != nil && out.Verdict.Flagged {
			return ExitFlagged
		}
		return ExitOK
	case entity.DispositionTimedOut:
		return ExitTimedOut
	default:
		return ExitFailed
	}
}

func writeOutput(w io.Writer, out *usecase.CheckOutput, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "text", "":
		_, err := io.WriteString(w, formatText(out))
		return err
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}

func formatText(out *usecase.CheckOutput) string {
	var b strings.Builder

	if entity.DispositionKind(out.Disposition) != entity.DispositionSuccess {
		fmt.Fprintf(&b, "Error: %s\n", out.Message)
		return b.String()
	}

	if out.Verdict != nil {
		fmt.Fprintf(&b, "Verdict:    %s\n", out.Verdict.Label)
		if out.Verdict.HasConfidence {
			fmt.Fprintf(&b, "Confidence: %.1f%%\n", out.Verdict.ConfidencePercent)
		}
	}
	if out.Reasoning != "" {
		fmt.Fprintf(&b, "Reasoning:  %s\n", out.Reasoning)
	}
	fmt.Fprintf(&b, "Latency:    %dms\n", out.LatencyMs)

	return b.String()
}
