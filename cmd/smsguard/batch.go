package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/smsguard/internal/cli"
	"github.com/Veraticus/smsguard/internal/common"
	"github.com/Veraticus/smsguard/internal/config"
	"github.com/Veraticus/smsguard/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const previewLength = 60

// batchPredictor is the part of the API client the batch command uses.
type batchPredictor interface {
	PredictBatch(ctx context.Context, texts []string) (model.BatchPrediction, error)
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Classify many SMS messages at once",
		Long: `Classify one SMS per line from a file or stdin.

Blank lines are skipped. Messages are sent in chunks of up to 100 with a
bounded number of requests in flight; the output keeps the input order.

Examples:
  smsguard batch --file inbox.txt
  smsguard batch --file inbox.txt --concurrency 8 --json > labels.jsonl
  cat inbox.txt | smsguard batch`,
		RunE: runBatch,
	}

	cmd.Flags().StringP("file", "f", "", "file with one SMS per line (default: stdin)")
	cmd.Flags().IntP("concurrency", "c", 4, "maximum chunks in flight")
	cmd.Flags().Bool("json", false, "print one JSON prediction per line")

	_ = viper.BindPFlag(config.KeyBatchConcurrency, cmd.Flags().Lookup("concurrency"))

	return cmd
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	path, _ := cmd.Flags().GetString("file")
	asJSON, _ := cmd.Flags().GetBool("json")

	in := cmd.InOrStdin()
	if path != "" {
		f, err := os.Open(config.ExpandPath(path))
		if err != nil {
			return common.NewUserError("Cannot open input file", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				common.LogError(closeErr, "Failed to close input file", common.Fields{"path": path})
			}
		}()
		in = f
	}

	texts, err := readTexts(in)
	if err != nil {
		return err
	}

	client, err := newClient(settings, slog.Default())
	if err != nil {
		return common.NewUserError("Invalid API URL", err)
	}

	slog.Info("Classifying SMS batch",
		"messages", len(texts),
		"chunks", len(chunkTexts(texts, model.MaxBatchSize)),
		"concurrency", settings.BatchConcurrency)

	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(texts), "Classifying")
	predictions, err := classifyBatch(ctx, client, texts, settings.BatchConcurrency, func(n int) {
		_ = bar.Add(n)
	})
	if err != nil {
		return common.NewUserError("Batch classification failed", err)
	}

	if asJSON {
		return writeJSONLines(cmd.OutOrStdout(), predictions)
	}
	return writeBatchTable(cmd.OutOrStdout(), predictions)
}

// readTexts reads one SMS per non-blank line.
func readTexts(r io.Reader) ([]string, error) {
	var texts []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if n := len([]rune(text)); n > model.MaxTextLength {
			return nil, common.NewUserError(
				fmt.Sprintf("Line %d is %d characters; the limit is %d", line, n, model.MaxTextLength),
				common.ErrInputTooLong)
		}
		texts = append(texts, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	if len(texts) == 0 {
		return nil, common.NewUserError("No SMS messages found in input", common.ErrEmptyInput)
	}

	return texts, nil
}

// chunkTexts splits texts into consecutive slices of at most size entries.
func chunkTexts(texts []string, size int) [][]string {
	if size <= 0 {
		size = model.MaxBatchSize
	}

	chunks := make([][]string, 0, (len(texts)+size-1)/size)
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		chunks = append(chunks, texts[start:end])
	}
	return chunks
}

// classifyBatch sends texts in chunks with at most concurrency requests in flight.
// Predictions come back in input order. The first failure cancels the remaining chunks.
func classifyBatch(ctx context.Context, client batchPredictor, texts []string, concurrency int, progress func(int)) ([]model.Prediction, error) {
	chunks := chunkTexts(texts, model.MaxBatchSize)
	results := make([][]model.Prediction, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	for i, chunk := range chunks {
		g.Go(func() error {
			resp, err := client.PredictBatch(gctx, chunk)
			if err != nil {
				return fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
			}
			results[i] = resp.Predictions
			if progress != nil {
				progress(len(chunk))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	predictions := make([]model.Prediction, 0, len(texts))
	for _, r := range results {
		predictions = append(predictions, r...)
	}
	return predictions, nil
}

func writeJSONLines(w io.Writer, predictions []model.Prediction) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, p := range predictions {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("failed to write prediction: %w", err)
		}
	}
	return nil
}

func writeBatchTable(w io.Writer, predictions []model.Prediction) error {
	var b strings.Builder

	b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-5s %-16s %-8s %s", "#", "LABEL", "CONF", "SMS")) + "\n")

	counts := make(map[model.Label]int, len(model.Labels()))
	for i, p := range predictions {
		counts[p.Label]++
		fmt.Fprintf(&b, "%-5d %s %-8s %s\n",
			i+1,
			cli.LabelStyle(p.Label).Width(16).Render(p.LabelName),
			cli.Percent(p.Confidence),
			preview(p.Text, previewLength))
	}

	b.WriteString("\n")
	summary := make([]string, 0, len(model.Labels()))
	for _, l := range model.Labels() {
		summary = append(summary, fmt.Sprintf("%s %s: %d", l.Icon(), l.Name(), counts[l]))
	}
	b.WriteString(cli.FormatInfo(fmt.Sprintf("%d messages  %s", len(predictions), strings.Join(summary, "  "))))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// preview shortens s to n runes on a single line.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
