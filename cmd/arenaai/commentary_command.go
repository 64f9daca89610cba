package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lsm1103/ArenaAI/internal/analysis"
	"github.com/lsm1103/ArenaAI/internal/render"
	"github.com/lsm1103/ArenaAI/internal/storage/sqlite"
	"github.com/lsm1103/ArenaAI/pkg/logger"
)

func newCommentaryCommand(ctx *commandContext) *cobra.Command {
	var (
		reportPath string
		outputDir  string
	)

	cmd := &cobra.Command{
		Use:   "commentary <results.json>",
		Short: "Convert a written analysis report into spoken-style commentary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir == "" {
				outputDir = ctx.cfg.Pipeline.OutputDir
			}
			return runCommentary(ctx, cmd, args[0], reportPath, outputDir)
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "analysis report to convert (defaults to the report written by analyze)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the commentary script (overrides config)")

	return cmd
}

func runCommentary(ctx *commandContext, cmd *cobra.Command, documentPath, reportPath, outputDir string) error {
	log := ctx.log.Named("commentary")

	doc, err := render.LoadDocument(documentPath)
	if err != nil {
		return err
	}

	if reportPath == "" {
		reportPath = filepath.Join(outputDir, doc.RunID+"_analysis.txt")
	}
	report, err := os.ReadFile(reportPath)
	if err != nil {
		return fmt.Errorf("failed to read analysis report: %w", err)
	}

	promptData, err := buildPromptData(ctx, doc)
	if err != nil {
		return err
	}

	client, cache, err := newLLMStack(ctx)
	if err != nil {
		return err
	}

	log.Info("Converting analysis to commentary",
		logger.String("run_id", doc.RunID),
		logger.String("report", reportPath))

	commentator := analysis.NewCommentator(client, cache, ctx.log)
	rounds, err := commentator.ConvertReport(cmd.Context(), string(report), promptData)
	if err != nil {
		return err
	}

	script := analysis.FormatCommentary(rounds)
	scriptPath := filepath.Join(outputDir, doc.RunID+"_commentary.txt")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return fmt.Errorf("failed to write commentary script: %w", err)
	}

	if err := storeAnalysis(ctx, sqlite.AnalysisRecord{
		RunID:     doc.RunID,
		Kind:      "commentary",
		Model:     client.Model(),
		Content:   script,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	failed := 0
	for _, round := range rounds {
		if round.Failed {
			failed++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Converted %d rounds (%d failed)\nScript: %s\n",
		len(rounds), failed, scriptPath)
	return nil
}
