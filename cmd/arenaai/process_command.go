package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lsm1103/ArenaAI/internal/audio"
	"github.com/lsm1103/ArenaAI/internal/inference"
	"github.com/lsm1103/ArenaAI/internal/match"
	"github.com/lsm1103/ArenaAI/internal/render"
	"github.com/lsm1103/ArenaAI/internal/storage/sqlite"
	"github.com/lsm1103/ArenaAI/internal/transcript"
	"github.com/lsm1103/ArenaAI/internal/voiceprint"
	"github.com/lsm1103/ArenaAI/pkg/logger"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		voiceprintPath string
		outputDir      string
		videoName      string
	)

	cmd := &cobra.Command{
		Use:   "process <audio.wav> <match.json>",
		Short: "Transcribe a match recording into a speaker-attributed timeline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if voiceprintPath == "" {
				voiceprintPath = ctx.cfg.Pipeline.VoiceprintPath
			}
			if outputDir == "" {
				outputDir = ctx.cfg.Pipeline.OutputDir
			}
			return runProcess(ctx, cmd, args[0], args[1], voiceprintPath, outputDir, videoName)
		},
	}

	cmd.Flags().StringVar(&voiceprintPath, "voiceprints", "", "path to the voiceprint library (overrides config)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for result files (overrides config)")
	cmd.Flags().StringVar(&videoName, "video-name", "", "source video name recorded in the results (defaults to the audio file name)")

	return cmd
}

func runProcess(ctx *commandContext, cmd *cobra.Command, audioPath, matchPath, voiceprintPath, outputDir, videoName string) error {
	log := ctx.log.Named("process")

	if videoName == "" {
		videoName = strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	}

	matchConfig, err := match.LoadFile(matchPath)
	if err != nil {
		return err
	}

	library, err := voiceprint.LoadFile(voiceprintPath)
	if err != nil {
		return err
	}

	candidates := matchConfig.CandidateNames()
	filtered, fellBack := library.FilterByRoster(candidates, match.Judge)
	if fellBack {
		log.Warn("No roster voiceprints found, falling back to the full library",
			logger.Int("library_size", library.Len()))
	}
	if missing := filtered.Missing(candidates); len(missing) > 0 {
		log.Warn("Some participants have no voiceprint",
			logger.Strings("missing", missing))
	}

	client := inference.NewClient(inference.Config{
		BaseURL:        ctx.cfg.Inference.BaseURL,
		TimeoutSeconds: ctx.cfg.Inference.TimeoutSeconds,
		MaxRetries:     ctx.cfg.Inference.MaxRetries,
	}, ctx.log)

	identifier := transcript.NewIdentifier(
		filtered,
		ctx.cfg.Pipeline.SimilarityThreshold,
		matchConfig.SeatLabels(),
		match.Judge,
	)

	pipelineConfig := transcript.Config{
		SimilarityThreshold:  ctx.cfg.Pipeline.SimilarityThreshold,
		MinSpeakerDurationMS: ctx.cfg.Pipeline.MinSpeakerDurationMS,
		CascadeCorrection:    ctx.cfg.Pipeline.CascadeCorrection,
	}
	pipeline := transcript.NewPipeline(client, client, client, identifier, pipelineConfig, &logObserver{log: log})

	log.Info("Processing match recording",
		logger.String("audio", audioPath),
		logger.String("match", matchConfig.Name),
		logger.Int("voiceprints", filtered.Len()))

	result, err := pipeline.Run(cmd.Context(), audioPath, matchConfig.TimeMarks)
	if err != nil {
		return err
	}

	totalDurationMS, err := audio.DurationMS(audioPath)
	if err != nil {
		log.Warn("Failed to probe audio duration", logger.Error(err))
		totalDurationMS = 0
	}

	runID := uuid.New().String()
	doc := render.BuildDocument(
		runID,
		videoName,
		audioPath,
		matchConfig,
		render.ProcessingConfig{
			SimilarityThreshold:  pipelineConfig.SimilarityThreshold,
			MinSpeakerDurationMS: pipelineConfig.MinSpeakerDurationMS,
			CascadeCorrection:    pipelineConfig.CascadeCorrection,
		},
		filtered.Names(),
		result,
		totalDurationMS,
	)

	jsonPath, textPath, err := writeResults(outputDir, doc)
	if err != nil {
		return err
	}

	if err := storeRun(ctx, doc, result); err != nil {
		return err
	}

	log.Info("Processing complete",
		logger.String("run_id", runID),
		logger.Int("segments", len(result.Segments)),
		logger.Int("merged_segments", len(result.Merged)))

	fmt.Fprintf(cmd.OutOrStdout(), "Run %s complete: %d segments, %d after merging\n",
		runID, len(result.Segments), len(result.Merged))
	fmt.Fprintf(cmd.OutOrStdout(), "Results: %s\nTranscript: %s\n", jsonPath, textPath)
	return nil
}

func writeResults(outputDir string, doc *render.Document) (jsonPath, textPath string, err error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory: %w", err)
	}

	jsonPath = filepath.Join(outputDir, doc.RunID+".json")
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to encode result document: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write result document: %w", err)
	}

	textPath = filepath.Join(outputDir, doc.RunID+".txt")
	if err := os.WriteFile(textPath, []byte(render.Transcript(doc)), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write transcript: %w", err)
	}
	return jsonPath, textPath, nil
}

func storeRun(ctx *commandContext, doc *render.Document, result *transcript.Result) error {
	db, runs, _, err := ctx.openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	record := &sqlite.RunRecord{
		ID:              doc.RunID,
		MatchName:       doc.MatchName,
		VideoName:       doc.VideoName,
		BoardType:       doc.BoardType,
		AudioPath:       doc.AudioPath,
		SegmentCount:    len(result.Merged),
		TotalDurationMS: doc.TotalDurationMS,
		CreatedAt:       time.Now().UTC(),
	}

	segments := make([]*sqlite.SegmentRecord, 0, len(result.Merged))
	for i, seg := range result.Merged {
		segments = append(segments, &sqlite.SegmentRecord{
			RunID:          doc.RunID,
			Position:       i,
			Speaker:        seg.Speaker,
			DisplaySpeaker: seg.DisplaySpeaker,
			StartMS:        seg.StartMS,
			EndMS:          seg.EndMS,
			DurationMS:     seg.DurationMS,
			Text:           seg.Text,
		})
	}

	marks := make([]*sqlite.MarkRecord, 0, len(doc.TimeMarks))
	for _, mark := range doc.TimeMarks {
		marks = append(marks, &sqlite.MarkRecord{
			RunID:   doc.RunID,
			StartMS: mark.StartMS,
			Label:   mark.Label,
		})
	}

	return runs.StoreRun(record, segments, marks)
}

// logObserver streams pipeline progress into the log.
type logObserver struct {
	log *logger.Logger
}

func (o *logObserver) SegmentProcessed(index, total int, seg transcript.IdentifiedSegment) {
	o.log.Debug("Segment identified",
		logger.Int("index", index+1),
		logger.Int("total", total),
		logger.String("speaker", seg.Speaker),
		logger.Int64("start_ms", seg.StartMS),
		logger.Int64("end_ms", seg.EndMS))
}

func (o *logObserver) SegmentRelabeled(seg transcript.MergedSegment, from, to string) {
	o.log.Info("Short segment relabeled",
		logger.String("from", from),
		logger.String("to", to),
		logger.Int64("start_ms", seg.StartMS),
		logger.Int64("duration_ms", seg.DurationMS))
}
