package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"subkatsu/internal/config"
	"subkatsu/internal/markov"
	"subkatsu/internal/preflight"
	"subkatsu/internal/services"
)

func newModelCommand(ctx *commandContext) *cobra.Command {
	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "Inspect and convert model files",
	}

	modelCmd.AddCommand(newModelListCommand(ctx))
	modelCmd.AddCommand(newModelInspectCommand(ctx))
	modelCmd.AddCommand(newModelExportCommand(ctx))
	modelCmd.AddCommand(newModelImportCommand(ctx))

	return modelCmd
}

func newModelListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List models in paths.model_dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			models, err := preflight.ScanModels(cfg.Paths.ModelDir)
			if err != nil {
				return services.Wrap(services.ErrModel, "cli", "list models", cfg.Paths.ModelDir, err)
			}
			out := cmd.OutOrStdout()
			if len(models) == 0 {
				fmt.Fprintf(out, "No models in %s\n", cfg.Paths.ModelDir)
				return nil
			}
			rows := make([][]string, 0, len(models))
			for _, model := range models {
				rows = append(rows, []string{
					model.Name,
					humanize.Bytes(uint64(model.Size)),
					model.Modified.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Name", "Size", "Modified"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
			return nil
		},
	}
}

type inspectTransition struct {
	Context []string `json:"context"`
	Token   string   `json:"token"`
	Count   int      `json:"count"`
}

type inspectReport struct {
	Path         string              `json:"path"`
	Metadata     markov.Metadata     `json:"metadata"`
	Contexts     int                 `json:"contexts"`
	Transitions  int                 `json:"transitions"`
	Observations int                 `json:"observations"`
	Top          []inspectTransition `json:"top"`
}

func newModelInspectCommand(ctx *commandContext) *cobra.Command {
	var top int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <model>",
		Short: "Show model metadata and the most frequent transitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if !cmd.Flags().Changed("top") {
				top = cfg.Generate.InspectTopN
			}
			chain, meta, path, err := ctx.loadModel(commandRun(cmd), cfg, args[0])
			if err != nil {
				return err
			}
			stats := chain.Stats()
			report := inspectReport{
				Path:         path,
				Metadata:     meta,
				Contexts:     stats.Contexts,
				Transitions:  stats.Transitions,
				Observations: stats.Observations,
			}
			for _, tr := range chain.TopTransitions(top) {
				report.Top = append(report.Top, inspectTransition{Context: tr.Context, Token: tr.Token, Count: tr.Count})
			}
			if asJSON {
				return writeJSON(cmd, report)
			}
			printInspectReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "Number of transitions to show (default generate.inspect_top_n)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func printInspectReport(w io.Writer, report inspectReport) {
	meta := report.Metadata
	fmt.Fprintf(w, "Model:        %s\n", report.Path)
	fmt.Fprintf(w, "Order:        %d\n", meta.Order)
	if meta.RunID != "" {
		fmt.Fprintf(w, "Run ID:       %s\n", meta.RunID)
	}
	if !meta.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created:      %s (%s)\n", meta.CreatedAt.Local().Format(time.DateTime), humanize.Time(meta.CreatedAt))
	}
	fmt.Fprintf(w, "Sources:      %d\n", meta.Sources)
	fmt.Fprintf(w, "Sequences:    %s\n", humanize.Comma(int64(meta.Sequences)))
	fmt.Fprintf(w, "Contexts:     %s\n", humanize.Comma(int64(report.Contexts)))
	fmt.Fprintf(w, "Transitions:  %s\n", humanize.Comma(int64(report.Transitions)))
	if len(report.Top) == 0 {
		return
	}
	rows := make([][]string, 0, len(report.Top))
	for _, tr := range report.Top {
		rows = append(rows, []string{
			markov.FormatContext(tr.Context),
			markov.FormatToken(tr.Token),
			strconv.Itoa(tr.Count),
		})
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTable([]string{"Context", "Next", "Count"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
}

func newModelExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <model>",
		Short: "Write a model as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			chain, meta, _, err := ctx.loadModel(commandRun(cmd), cfg, args[0])
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return markov.Export(w, chain, meta)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write YAML to this file instead of stdout")
	return cmd
}

func newModelImportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create a model from a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			src, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return services.Wrap(services.ErrInput, "cli", "resolve import", args[0], err)
			}
			modelPath, err := cfg.ModelPath(output)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "resolve model", "--output", err)
			}

			f, err := os.Open(src)
			if err != nil {
				return services.Wrap(services.ErrInput, "cli", "open import", src, err)
			}
			defer f.Close()

			chain, meta, err := markov.Import(f)
			if err != nil {
				return err
			}
			if meta.CreatedAt.IsZero() {
				meta.CreatedAt = time.Now().UTC()
			}
			if err := markov.Save(commandRun(cmd), modelPath, chain, meta); err != nil {
				return err
			}
			stats := chain.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transitions (order %d) into %s\n", stats.Transitions, stats.Order, modelPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Model file or name to write")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
