package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/apex/log"

	"github.com/portraitlab/genai-client/pkg/csvconv"
	"github.com/portraitlab/genai-client/pkg/llm"
	"github.com/portraitlab/genai-client/pkg/runner"
	"github.com/portraitlab/genai-client/pkg/stats"
)

type batchOptions struct {
	model     string
	jsonOut   bool
	noCache   bool
	outPath   string
	workers   int
	delay     time.Duration
	strategy  string
	batchSize int
	plain     bool
}

type batchRow struct {
	ID     int    `csv:"id"`
	Prompt string `csv:"prompt"`
	Model  string `csv:"model"`
}

type batchResult struct {
	ID        int     `csv:"id"`
	Prompt    string  `csv:"prompt"`
	Model     string  `csv:"model"`
	Content   string  `csv:"content"`
	FromCache bool    `csv:"from_cache"`
	CostUSD   float64 `csv:"cost_usd"`
	Error     string  `csv:"error"`
}

func newBatchCmd(opts *rootOptions) *cobra.Command {
	var c batchOptions
	cmd := &cobra.Command{
		Use:   "batch <prompts.csv>",
		Short: "Run completions for every row of a CSV file",
		Long:  "Reads rows with id, prompt and an optional model column, runs each prompt through OpenRouter with caching and writes results back as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := csvconv.ReadFile[batchRow](args[0])
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				cmd.Println("no rows to process")
				return nil
			}
			if opts.openRouterAPIKey == "" {
				return errors.Errorf("OPENROUTER_API_KEY is not set")
			}
			client, err := llm.NewOpenRouter(llm.Config{APIKey: opts.openRouterAPIKey})
			if err != nil {
				return err
			}
			manager, err := opts.openCache()
			if err != nil {
				return err
			}

			counter := stats.NewCounter()
			var notify func(tea.Msg)

			process := func(ctx context.Context, row batchRow) (batchResult, error) {
				model := lo.If(row.Model != "", row.Model).Else(c.model)
				request := llm.CompletionRequest{
					Prompt:     row.Prompt,
					Model:      resolveModel(model, 0, -1),
					JSONOutput: c.jsonOut,
				}
				response, fromCache, err := completeCached(ctx, client, manager, request, !c.noCache)
				result := batchResult{ID: row.ID, Prompt: row.Prompt, Model: request.Model.Name}
				if err != nil {
					result.Error = err.Error()
					counter.Add("llm", map[string]any{"errors": 1})
					report(notify, c.plain, fmt.Sprintf("row %d failed: %v", row.ID, err))
					return result, err
				}
				result.Content = response.Content
				result.FromCache = fromCache
				result.CostUSD = response.Usage.CostUSD
				counter.Add("llm", map[string]any{
					"requests":          1,
					"cache_hits":        lo.If(fromCache, 1).Else(0),
					"prompt_tokens":     response.Usage.PromptTokens,
					"completion_tokens": response.Usage.CompletionTokens,
					"cost_usd":          response.Usage.CostUSD,
				})
				report(notify, c.plain, fmt.Sprintf("row %d done%s, $%.6f", row.ID,
					lo.If(fromCache, " (cached)").Else(""), response.Usage.CostUSD))
				return result, nil
			}

			pool := runner.New(process, runner.Config{
				Workers:   c.workers,
				Delay:     c.delay,
				Strategy:  runner.Strategy(c.strategy),
				BatchSize: c.batchSize,
			})

			var results []runner.Result[batchResult]
			var elapsed time.Duration
			var runErr error
			if c.plain {
				results, elapsed, runErr = pool.Process(cmd.Context(), rows)
			} else {
				ui := newBatchUI(len(rows))
				program := tea.NewProgram(ui)
				notify = program.Send
				go func() {
					results, elapsed, runErr = pool.Process(cmd.Context(), rows)
					program.Send(batchFinishedMsg{})
				}()
				if _, err := program.Run(); err != nil {
					return err
				}
			}
			if runErr != nil {
				log.WithError(runErr).Warnf("batch stopped early")
			}

			if c.outPath != "" {
				out := lo.Map(results, func(r runner.Result[batchResult], _ int) batchResult {
					return r.Value
				})
				if err := csvconv.WriteFile(c.outPath, out); err != nil {
					return err
				}
				cmd.Printf("results written to %s\n", c.outPath)
			}

			cmd.Println(counter.Summary("batch run"))
			cmd.Printf("processed %d row(s) in %s\n", len(results), elapsed.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&c.model, "model", "m", "gemini-flash", "Default model for rows without one")
	cmd.Flags().BoolVarP(&c.jsonOut, "json", "j", false, "Ask the model for JSON output")
	cmd.Flags().BoolVar(&c.noCache, "no-cache", false, "Skip the result cache")
	cmd.Flags().StringVarP(&c.outPath, "out", "o", "", "Write results to this CSV file")
	cmd.Flags().IntVarP(&c.workers, "workers", "w", runner.DefaultWorkers, "Concurrent workers")
	cmd.Flags().DurationVar(&c.delay, "delay", runner.DefaultDelay, "Delay between launches")
	cmd.Flags().StringVarP(&c.strategy, "strategy", "s", string(runner.StrategySequentialDelay), "Launch strategy: sequential-with-delay, immediate or batched")
	cmd.Flags().IntVar(&c.batchSize, "batch-size", runner.DefaultBatchSize, "Launch group size for the batched strategy")
	cmd.Flags().BoolVar(&c.plain, "plain", false, "Line-by-line output instead of the progress UI")
	return cmd
}

func report(notify func(tea.Msg), plain bool, message string) {
	if plain || notify == nil {
		log.Infof("%s", message)
		return
	}
	notify(taskDoneMsg{message: message})
}
