package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/lsm1103/ArenaAI/pkg/logger"
)

// SpeechAnalysis is the analysis of one player's speech within a section.
type SpeechAnalysis struct {
	Index     int    `json:"index"`
	Speaker   string `json:"speaker"`
	StartMS   int64  `json:"start_ms"`
	EndMS     int64  `json:"end_ms"`
	Content   string `json:"content"`
	Failed    bool   `json:"failed,omitempty"`
	FromCache bool   `json:"from_cache,omitempty"`
}

// Analyzer runs progressive speech-by-speech analysis: each speech is
// analyzed with the analyses of all earlier speeches as context.
type Analyzer struct {
	client *Client
	cache  *Cache
	logger *logger.Logger
}

func NewAnalyzer(client *Client, cache *Cache, parentLogger *logger.Logger) *Analyzer {
	return &Analyzer{
		client: client,
		cache:  cache,
		logger: parentLogger.Named("analyzer"),
	}
}

// AnalyzeSection analyzes every speech in order. A failed completion is
// recorded with a failure marker and does not stop later speeches; the
// error return is reserved for context cancellation.
func (a *Analyzer) AnalyzeSection(ctx context.Context, speeches []Speech, data PromptData) ([]SpeechAnalysis, error) {
	analyses := make([]SpeechAnalysis, 0, len(speeches))
	var previous strings.Builder

	for i, speech := range speeches {
		if err := ctx.Err(); err != nil {
			return analyses, err
		}

		a.logger.Info("Analyzing speech",
			logger.Int("index", i+1),
			logger.Int("total", len(speeches)),
			logger.String("speaker", speech.Speaker))

		analysis := SpeechAnalysis{
			Index:   i + 1,
			Speaker: speech.Speaker,
			StartMS: speech.StartMS,
			EndMS:   speech.EndMS,
		}

		prevText := previous.String()
		if prevText == "" {
			prevText = "none yet, this is the first speech"
		}

		content, fromCache, err := a.analyzeSpeech(ctx, speech, data, prevText)
		if err != nil {
			if ctx.Err() != nil {
				return analyses, ctx.Err()
			}
			a.logger.Error("Speech analysis failed",
				logger.Int("index", i+1),
				logger.String("speaker", speech.Speaker),
				logger.Error(err))
			analysis.Failed = true
			analysis.Content = fmt.Sprintf("[analysis failed: %v]", err)
		} else {
			analysis.Content = content
			analysis.FromCache = fromCache
		}

		analyses = append(analyses, analysis)
		previous.WriteString(FormatAnalysis(analysis))
		previous.WriteString("\n\n")
	}

	return analyses, nil
}

func (a *Analyzer) analyzeSpeech(ctx context.Context, speech Speech, data PromptData, previous string) (string, bool, error) {
	data.Transcript = speech.Transcript
	data.Previous = previous

	userPrompt, err := renderTemplate(analysisUserTmpl, data)
	if err != nil {
		return "", false, err
	}

	key := Key(a.client.Model(), analysisSystemPrompt, userPrompt)
	if cached, ok := a.cache.Get(key); ok {
		return cached, true, nil
	}

	content, err := a.client.Complete(ctx, analysisSystemPrompt, userPrompt)
	if err != nil {
		return "", false, err
	}
	a.cache.Put(key, content)
	return content, false, nil
}

// FormatAnalysis renders one analysis with its banner line, the shape used
// both for rolling context and for the final report.
func FormatAnalysis(analysis SpeechAnalysis) string {
	return fmt.Sprintf("=== Speech %d analysis - %s ===\n%s",
		analysis.Index, analysis.Speaker, analysis.Content)
}

// FormatReport joins all analyses into the section report.
func FormatReport(analyses []SpeechAnalysis) string {
	parts := make([]string, 0, len(analyses))
	for _, analysis := range analyses {
		parts = append(parts, FormatAnalysis(analysis))
	}
	return strings.Join(parts, "\n\n")
}
