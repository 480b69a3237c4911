package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/smsguard/internal/cli"
	"github.com/Veraticus/smsguard/internal/common"
	"github.com/Veraticus/smsguard/internal/controller"
	"github.com/Veraticus/smsguard/internal/model"
	"github.com/spf13/cobra"
)

// maxStdinBytes bounds how much of stdin is read; anything longer is rejected, never truncated.
const maxStdinBytes = 64 << 10

var errPredictionFailed = errors.New("prediction failed")

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [text...]",
		Short: "Classify a single SMS",
		Long: `Classify a single SMS as Normal, Fraud/Penipuan or Promo.

The text comes from the arguments, joined by spaces, or from stdin when no
arguments are given. The service health is checked first and the command
refuses to run while the model is not loaded.

Examples:
  smsguard predict "Selamat! Anda memenangkan hadiah 100jt"
  pbpaste | smsguard predict --json`,
		RunE: runPredict,
	}

	cmd.Flags().Bool("json", false, "print the raw prediction as JSON")
	cmd.Flags().Bool("skip-health", false, "submit without checking service health first")

	return cmd
}

func runPredict(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	skipHealth, _ := cmd.Flags().GetBool("skip-health")

	text, err := readPredictText(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	client, err := newClient(settings, slog.Default())
	if err != nil {
		return common.NewUserError("Invalid API URL", err)
	}

	prediction, err := predictOnce(cmd.Context(), client, text, skipHealth)
	if err != nil {
		return err
	}

	return writePrediction(cmd.OutOrStdout(), prediction, asJSON)
}

// readPredictText takes the SMS from args, or from r when args is empty.
func readPredictText(args []string, r io.Reader) (string, error) {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(io.LimitReader(r, maxStdinBytes+1))
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		if len(data) > maxStdinBytes {
			return "", common.NewUserError(
				fmt.Sprintf("Input on stdin exceeds %d bytes; the SMS limit is %d characters", maxStdinBytes, model.MaxTextLength),
				common.ErrInputTooLong)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", common.NewUserError("Nothing to classify: pass the SMS as arguments or on stdin", common.ErrEmptyInput)
	}
	if n := len([]rune(text)); n > model.MaxTextLength {
		return "", common.NewUserError(
			fmt.Sprintf("SMS is %d characters; the limit is %d", n, model.MaxTextLength),
			common.ErrInputTooLong)
	}

	return text, nil
}

// predictOnce drives a controller through one health check and one submission.
func predictOnce(ctx context.Context, predictor controller.Predictor, text string, skipHealth bool) (model.Prediction, error) {
	ctrl := controller.New(ctx, predictor, controller.WithText(text))
	defer ctrl.Close()

	if !skipHealth && ctrl.Init(ctx) == controller.StatusOffline {
		return model.Prediction{}, common.NewUserError(
			"Prediction service is offline; run 'smsguard health' for details",
			common.ErrServiceOffline)
	}

	if !ctrl.Submit(ctx) {
		return model.Prediction{}, common.NewUserError("Prediction was not submitted", errPredictionFailed)
	}

	state := ctrl.Snapshot()
	if state.Error != "" {
		return model.Prediction{}, common.NewUserError(state.Error, errPredictionFailed)
	}
	if state.Result == nil {
		return model.Prediction{}, errPredictionFailed
	}

	return *state.Result, nil
}

func writePrediction(w io.Writer, p model.Prediction, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	_, err := fmt.Fprintln(w, cli.FormatPrediction(p))
	return err
}
