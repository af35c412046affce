package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"orcaScanner/internal/config"
	"orcaScanner/internal/pipeline"
	"orcaScanner/internal/report"
)

func runShow(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadShow(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	return report.NewPrinter(cmd.OutOrStdout(), cfg.OutDir, cfg.Top).Print(cfg.Sections)
}

func runAssertOutputs(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadShow(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := pipeline.AssertOutputs(cfg.OutDir); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "all outputs present")
	return nil
}
