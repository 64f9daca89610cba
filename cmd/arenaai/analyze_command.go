package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/lsm1103/ArenaAI/internal/analysis"
	"github.com/lsm1103/ArenaAI/internal/render"
	"github.com/lsm1103/ArenaAI/internal/storage/sqlite"
	"github.com/lsm1103/ArenaAI/pkg/logger"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		sectionLabel string
		outputDir    string
	)

	cmd := &cobra.Command{
		Use:   "analyze <results.json>",
		Short: "Run progressive speech analysis over a processed match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sectionLabel == "" {
				sectionLabel = ctx.cfg.Analysis.SectionLabel
			}
			if outputDir == "" {
				outputDir = ctx.cfg.Pipeline.OutputDir
			}
			return runAnalyze(ctx, cmd, args[0], sectionLabel, outputDir)
		},
	}

	cmd.Flags().StringVar(&sectionLabel, "section", "", "time mark label that starts the section to analyze (overrides config)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the analysis report (overrides config)")

	return cmd
}

func runAnalyze(ctx *commandContext, cmd *cobra.Command, documentPath, sectionLabel, outputDir string) error {
	log := ctx.log.Named("analyze")

	doc, err := render.LoadDocument(documentPath)
	if err != nil {
		return err
	}

	promptData, err := buildPromptData(ctx, doc)
	if err != nil {
		return err
	}

	section, err := analysis.ExtractSection(doc.MergedSegments, doc.TimeMarks, sectionLabel)
	if err != nil {
		return err
	}
	speeches := analysis.GroupBySpeaker(section.Segments)
	if len(speeches) == 0 {
		return fmt.Errorf("section %q contains no attributable speeches", sectionLabel)
	}

	client, cache, err := newLLMStack(ctx)
	if err != nil {
		return err
	}

	log.Info("Analyzing section",
		logger.String("run_id", doc.RunID),
		logger.String("section", section.StartLabel),
		logger.Int("speeches", len(speeches)))

	analyzer := analysis.NewAnalyzer(client, cache, ctx.log)
	analyses, err := analyzer.AnalyzeSection(cmd.Context(), speeches, promptData)
	if err != nil {
		return err
	}

	report := analysis.FormatReport(analyses)
	reportPath := filepath.Join(outputDir, doc.RunID+"_analysis.txt")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
		return fmt.Errorf("failed to write analysis report: %w", err)
	}

	if err := storeAnalysis(ctx, sqlite.AnalysisRecord{
		RunID:        doc.RunID,
		Kind:         "analysis",
		SectionLabel: section.StartLabel,
		Model:        client.Model(),
		Content:      report,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		return err
	}

	failed := 0
	for _, a := range analyses {
		if a.Failed {
			failed++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Analyzed %d speeches (%d failed)\nReport: %s\n",
		len(analyses), failed, reportPath)
	return nil
}

// buildPromptData resolves the board description for the document's board
// type and assembles the static prompt fields.
func buildPromptData(ctx *commandContext, doc *render.Document) (analysis.PromptData, error) {
	boards, err := analysis.LoadBoardConfigs(ctx.cfg.Analysis.BoardConfigPath)
	if err != nil {
		return analysis.PromptData{}, err
	}

	board, ok := boards[doc.BoardType]
	if !ok {
		known := make([]string, 0, len(boards))
		for name := range boards {
			known = append(known, name)
		}
		sort.Strings(known)
		return analysis.PromptData{}, fmt.Errorf("unknown board type %q, known types: %v", doc.BoardType, known)
	}

	return analysis.BuildPromptData(doc.MatchConfig(), board), nil
}

func newLLMStack(ctx *commandContext) (*analysis.Client, *analysis.Cache, error) {
	client, err := analysis.NewClient(analysis.ClientConfig{
		APIKey:      ctx.cfg.LLM.APIKey,
		BaseURL:     ctx.cfg.LLM.BaseURL,
		Model:       ctx.cfg.LLM.Model,
		Temperature: ctx.cfg.LLM.Temperature,
		MaxTokens:   ctx.cfg.LLM.MaxTokens,
	}, ctx.log)
	if err != nil {
		return nil, nil, err
	}

	cache, err := analysis.NewCache(ctx.cfg.LLM.CacheDir, ctx.log)
	if err != nil {
		return nil, nil, err
	}
	return client, cache, nil
}

func storeAnalysis(ctx *commandContext, record sqlite.AnalysisRecord) error {
	db, _, analyses, err := ctx.openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := analyses.StoreAnalysis(&record); err != nil {
		return err
	}
	return nil
}
