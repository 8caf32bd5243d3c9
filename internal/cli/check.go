package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
)

var checkFormat string

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <query...>",
	Short: "Look up published fact checks for a claim or topic",
	Long: `Check searches published fact checks for a claim or topic and prints
the normalized response.

Queries of one or two words are expanded to "fact check <query>".
When nothing matches, up to three alternative queries are suggested.

The command exits 1 when the response status is "error".

Example:
  claimcheck check "drinking bleach cures covid"
  claimcheck check moon landing --format text
  claimcheck check 5g towers --llm-provider openai`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "json", "output format: json or text")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkFormat != "json" && checkFormat != "text" {
		return fmt.Errorf("unknown format %q (supported: json, text)", checkFormat)
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := requestContext(cmd.Context(), cfg)
	defer cancel()

	resp := a.pipeline.Resolve(ctx, strings.Join(args, " "))

	logger.Debug("check complete",
		zap.String("query_used", resp.QueryUsed),
		zap.String("status", string(resp.Status)),
		zap.Int("results", len(resp.Results)))

	out := cmd.OutOrStdout()
	if checkFormat == "text" {
		err = pipeline.RenderText(out, resp)
	} else {
		err = pipeline.RenderJSON(out, resp)
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if resp.Status == model.StatusError {
		return ErrQueryFailed
	}
	return nil
}
