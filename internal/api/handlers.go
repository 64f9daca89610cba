package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lsm1103/ArenaAI/internal/render"
	"github.com/lsm1103/ArenaAI/internal/storage/sqlite"
	"github.com/lsm1103/ArenaAI/internal/transcript"
	"github.com/lsm1103/ArenaAI/pkg/logger"
)

const defaultRunLimit = 20

// Handler holds the route handlers and their dependencies.
type Handler struct {
	runs     *sqlite.RunStorage
	analyses *sqlite.AnalysisStorage
	logger   *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(runs *sqlite.RunStorage, analyses *sqlite.AnalysisStorage, logger *logger.Logger) *Handler {
	return &Handler{
		runs:     runs,
		analyses: analyses,
		logger:   logger.Named("api-handler"),
	}
}

// GetHealth returns the service health status
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// GetRuns returns the most recent processing runs
func (h *Handler) GetRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.respondError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	runs, err := h.runs.GetRecentRuns(limit)
	if err != nil {
		h.logger.Error("Failed to get runs", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get runs")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

// GetRun returns one run by ID
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, run)
}

// GetRunTranscript returns a run's transcript as JSON or plain text
func (h *Handler) GetRunTranscript(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}

	items, err := h.loadTimeline(run.ID)
	if err != nil {
		h.logger.Error("Failed to load timeline", logger.String("run_id", run.ID), logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to load transcript")
		return
	}

	if r.URL.Query().Get("format") == "text" {
		lines := make([]byte, 0, len(items)*64)
		for _, item := range items {
			lines = append(lines, render.TimelineLine(item)...)
			lines = append(lines, '\n')
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(lines)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":   run.ID,
		"timeline": items,
	})
}

// GetRunAnalyses returns a run's stored analyses, optionally filtered by kind
func (h *Handler) GetRunAnalyses(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}

	kind := r.URL.Query().Get("kind")
	records, err := h.analyses.GetAnalysesByRun(run.ID, kind)
	if err != nil {
		h.logger.Error("Failed to get analyses", logger.String("run_id", run.ID), logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get analyses")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":   run.ID,
		"analyses": records,
	})
}

func (h *Handler) lookupRun(w http.ResponseWriter, r *http.Request) (*sqlite.RunRecord, bool) {
	id := chi.URLParam(r, "id")
	run, err := h.runs.GetRun(id)
	if err != nil {
		h.logger.Error("Failed to get run", logger.String("run_id", id), logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to get run")
		return nil, false
	}
	if run == nil {
		h.respondError(w, http.StatusNotFound, "run not found")
		return nil, false
	}
	return run, true
}

// loadTimeline reassembles a run's timeline from its stored segments and marks.
func (h *Handler) loadTimeline(runID string) ([]transcript.TimelineItem, error) {
	records, err := h.runs.GetSegmentsByRun(runID)
	if err != nil {
		return nil, err
	}
	markRecords, err := h.runs.GetMarksByRun(runID)
	if err != nil {
		return nil, err
	}

	segments := make([]transcript.MergedSegment, 0, len(records))
	for _, rec := range records {
		segments = append(segments, transcript.MergedSegment{
			Speaker:        rec.Speaker,
			DisplaySpeaker: rec.DisplaySpeaker,
			StartMS:        rec.StartMS,
			EndMS:          rec.EndMS,
			DurationMS:     rec.DurationMS,
			Text:           rec.Text,
		})
	}
	marks := make([]transcript.TimeMark, 0, len(markRecords))
	for _, rec := range markRecords {
		marks = append(marks, transcript.TimeMark{StartMS: rec.StartMS, Label: rec.Label})
	}

	return transcript.AssembleTimeline(segments, marks), nil
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
