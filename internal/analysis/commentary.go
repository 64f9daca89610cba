package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lsm1103/ArenaAI/pkg/logger"
)

// RoundAnalysis is one banner-delimited block of an analysis report.
type RoundAnalysis struct {
	Header  string
	Content string
}

var (
	bannerPattern     = regexp.MustCompile(`(?m)^=== .+ ===$`)
	commentaryPattern = regexp.MustCompile(`(?s)<commentary>(.*?)</commentary>`)
)

// SplitRounds cuts an analysis report at its banner lines. Text before the
// first banner is dropped; a report without banners becomes one round with
// an empty header.
func SplitRounds(report string) []RoundAnalysis {
	locs := bannerPattern.FindAllStringIndex(report, -1)
	if len(locs) == 0 {
		trimmed := strings.TrimSpace(report)
		if trimmed == "" {
			return nil
		}
		return []RoundAnalysis{{Content: trimmed}}
	}

	rounds := make([]RoundAnalysis, 0, len(locs))
	for i, loc := range locs {
		end := len(report)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		rounds = append(rounds, RoundAnalysis{
			Header:  report[loc[0]:loc[1]],
			Content: strings.TrimSpace(report[loc[1]:end]),
		})
	}
	return rounds
}

// ExtractCommentary pulls the text inside <commentary> tags. A response
// without tags is returned trimmed as-is: some models ignore the wrapping
// instruction but still produce usable commentary.
func ExtractCommentary(response string) string {
	if m := commentaryPattern.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(response)
}

// Commentator converts written analyses into spoken-style commentary.
type Commentator struct {
	client *Client
	cache  *Cache
	logger *logger.Logger
}

func NewCommentator(client *Client, cache *Cache, parentLogger *logger.Logger) *Commentator {
	return &Commentator{
		client: client,
		cache:  cache,
		logger: parentLogger.Named("commentator"),
	}
}

// RoundCommentary is the oral rendition of one analysis round.
type RoundCommentary struct {
	Header    string `json:"header"`
	Content   string `json:"content"`
	Failed    bool   `json:"failed,omitempty"`
	FromCache bool   `json:"from_cache,omitempty"`
}

// ConvertReport splits the report into rounds and converts each one
// independently. Per-round failures are recorded and skipped.
func (c *Commentator) ConvertReport(ctx context.Context, report string, data PromptData) ([]RoundCommentary, error) {
	rounds := SplitRounds(report)
	if len(rounds) == 0 {
		return nil, fmt.Errorf("analysis report contains no rounds")
	}

	systemPrompt, err := renderTemplate(commentarySystemTmpl, data)
	if err != nil {
		return nil, err
	}

	results := make([]RoundCommentary, 0, len(rounds))
	for i, round := range rounds {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		c.logger.Info("Converting round to commentary",
			logger.Int("round", i+1),
			logger.Int("total", len(rounds)))

		result := RoundCommentary{Header: round.Header}
		content, fromCache, err := c.convertRound(ctx, systemPrompt, round, data)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			c.logger.Error("Round conversion failed",
				logger.Int("round", i+1),
				logger.Error(err))
			result.Failed = true
			result.Content = fmt.Sprintf("[commentary failed: %v]", err)
		} else {
			result.Content = content
			result.FromCache = fromCache
		}
		results = append(results, result)
	}

	return results, nil
}

func (c *Commentator) convertRound(ctx context.Context, systemPrompt string, round RoundAnalysis, data PromptData) (string, bool, error) {
	data.Analysis = strings.TrimSpace(round.Header + "\n" + round.Content)
	userPrompt, err := renderTemplate(commentaryUserTmpl, data)
	if err != nil {
		return "", false, err
	}

	key := Key(c.client.Model(), systemPrompt, userPrompt)
	if cached, ok := c.cache.Get(key); ok {
		return ExtractCommentary(cached), true, nil
	}

	response, err := c.client.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", false, err
	}
	c.cache.Put(key, response)
	return ExtractCommentary(response), false, nil
}

// FormatCommentary joins round commentaries into the final script.
func FormatCommentary(rounds []RoundCommentary) string {
	parts := make([]string, 0, len(rounds))
	for _, round := range rounds {
		if round.Header != "" {
			parts = append(parts, round.Header+"\n"+round.Content)
		} else {
			parts = append(parts, round.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
