package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CenJi03/school-system-sub001/internal/summary"
)

var errNoProvider = errors.New("--insight needs [llm] provider set in the config")

func (a *App) summaryCmd() *cobra.Command {
	var (
		teacher string
		date    string
		insight bool
		model   string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize teaching load, room use and clashes",
		Long: `Summarize the week: hours per teacher and room, the busiest day,
teacher or room clashes, and classes over room capacity.

With --insight a local LLM (Ollama or LM Studio, see the [llm] config
section) also reviews the week.`,
		Example: `  aula summary
  aula summary --teacher=t-maria
  aula summary --insight --model=llama3.2`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			filter, err := parseFilter(teacher, date)
			if err != nil {
				return err
			}
			backend, err := a.ensureBackend()
			if err != nil {
				return err
			}
			if model == "" {
				model = a.config.LLM.Model
			}
			if insight && a.config.LLM.Provider == "" {
				return errNoProvider
			}

			report, err := summary.Build(context.Background(), backend, summary.Options{
				Filter:         filter,
				IncludeInsight: insight,
				Provider:       a.config.LLM.Provider,
				Model:          model,
				BaseURL:        a.config.LLM.BaseURL,
			})
			if err != nil {
				return fmt.Errorf("building summary: %w", err)
			}
			printReport(a.out, report, min(termWidth(), ruleWidth))
			return nil
		},
	}

	cmd.Flags().StringVar(&teacher, "teacher", "", "Only summarize classes of this teacher id")
	cmd.Flags().StringVar(&date, "date", "", "Only summarize classes held on this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&insight, "insight", false, "Ask the configured LLM to review the week")
	cmd.Flags().StringVar(&model, "model", "", "LLM model to use (default from config)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
