package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ppiankov/claimcheck/internal/model"
)

// RenderJSON writes v as indented JSON followed by a newline
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// RenderText writes a human-readable summary of resp
func RenderText(w io.Writer, resp model.PipelineResponse) error {
	fmt.Fprintf(w, "Query:  %s\n", resp.QueryUsed)
	fmt.Fprintf(w, "Status: %s\n", resp.Status)
	if resp.Notes != "" {
		fmt.Fprintf(w, "Notes:  %s\n", resp.Notes)
	}

	if len(resp.Results) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "VERDICT\tCATEGORY\tPUBLISHER\tDATE\tCLAIM")
		for _, r := range resp.Results {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				truncate(r.Verdict, 24),
				r.VerdictCategory,
				truncate(r.Publisher.Name, 20),
				dash(r.PublishedDate),
				truncate(r.Claim, 60))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("flush table: %w", err)
		}

		fmt.Fprintln(w)
		for i, r := range resp.Results {
			fmt.Fprintf(w, "[%d] %s\n", i+1, r.ClaimReviewURL)
		}
	}

	if resp.Status == model.StatusNoResults && len(resp.Suggestions) > 0 {
		fmt.Fprintln(w, "\nTry instead:")
		for _, s := range resp.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}

	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
