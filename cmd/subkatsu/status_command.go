package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"subkatsu/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, directory, dependency, and model status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderSectionHeader("Configuration", colorize))
			if ctx.configSeen {
				fmt.Fprintln(out, renderStatusLine("Config file", statusOK, ctx.configPath, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Config file", statusInfo, "not found; using defaults", colorize))
			}
			fmt.Fprintln(out, renderStatusLine("CJK segmenter", statusInfo, cfg.Tokenizer.CJKSegmenter, colorize))
			fmt.Fprintln(out, renderStatusLine("File logging", statusInfo, yesNo(cfg.Logging.File), colorize))

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Directories", colorize))
			for _, result := range preflight.RunAll(cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Dependencies", colorize))
			for _, dep := range preflight.CheckSystemDeps(cfg) {
				switch {
				case dep.Available:
					fmt.Fprintln(out, renderStatusLine(dep.Name, statusOK, dep.Command, colorize))
				case dep.Optional:
					fmt.Fprintln(out, renderStatusLine(dep.Name, statusWarn, dep.Detail+" (screenshots unavailable)", colorize))
				default:
					fmt.Fprintln(out, renderStatusLine(dep.Name, statusError, dep.Detail, colorize))
				}
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Models", colorize))
			models, err := preflight.ScanModels(cfg.Paths.ModelDir)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Model directory", statusError, err.Error(), colorize))
				return nil
			}
			if len(models) == 0 {
				fmt.Fprintln(out, renderStatusLine("Models", statusWarn, "none found; run subkatsu train", colorize))
				return nil
			}
			for _, model := range models {
				detail := fmt.Sprintf("%s, updated %s", humanize.Bytes(uint64(model.Size)), humanize.Time(model.Modified))
				fmt.Fprintln(out, renderStatusLine(model.Name, statusInfo, detail, colorize))
			}
			return nil
		},
	}
}
