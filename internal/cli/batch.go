package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/ppiankov/claimcheck/internal/worker"
)

var batchOut string

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check many queries from a file in parallel",
	Long: `Batch resolves one query per line concurrently:
- Blank lines, '#' comments and duplicate queries are skipped
- Each query gets its own http.request_timeout deadline
- Upstream searches share a per-host rate limit
- Output is a JSON array of responses in input order

Example:
  claimcheck batch queries.txt
  claimcheck batch queries.txt --workers 8 --out results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "write results to this file instead of stdout")
	batchCmd.Flags().Int("workers", 0, "number of concurrent workers (default from concurrency.workers)")
	_ = viper.BindPFlag("concurrency.workers", batchCmd.Flags().Lookup("workers"))
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("starting batch",
		zap.String("file", args[0]),
		zap.Int("workers", cfg.Concurrency.Workers))

	processor := worker.NewBatchProcessor(a.pipeline, cfg.Concurrency.Workers, cfg.HTTP.RequestTimeout, logger)
	results, err := processor.ProcessFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	responses := make([]model.PipelineResponse, len(results))
	counts := map[model.Status]int{}
	for i, r := range results {
		responses[i] = r.Response
		counts[r.Response.Status]++
	}

	var out io.Writer = cmd.OutOrStdout()
	if batchOut != "" {
		f, err := os.Create(batchOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		out = f
	}

	if err := pipeline.RenderJSON(out, responses); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	logger.Info("batch complete",
		zap.Int("queries", len(results)),
		zap.Int("ok", counts[model.StatusOK]),
		zap.Int("no_results", counts[model.StatusNoResults]),
		zap.Int("error", counts[model.StatusError]))

	return nil
}
