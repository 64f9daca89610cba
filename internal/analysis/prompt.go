package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/lsm1103/ArenaAI/internal/match"
)

// promptVersion feeds the analysis cache key so cached responses are
// invalidated when the templates change.
const promptVersion = "v2"

// BoardConfig describes one board type for prompt building.
type BoardConfig struct {
	Roles     string `json:"roles"`
	ActionSeq string `json:"action_seq"`
	Rules     string `json:"rules"`
}

// LoadBoardConfigs reads the board config file: a JSON object mapping board
// type names to their descriptions.
func LoadBoardConfigs(path string) (map[string]BoardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board config: %w", err)
	}

	var configs map[string]BoardConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("failed to parse board config: %w", err)
	}
	return configs, nil
}

// PromptData carries everything the analysis templates interpolate.
type PromptData struct {
	MatchName  string
	BoardType  string
	Roles      string
	ActionSeq  string
	Rules      string
	PlayerInfo string
	NoSheriff  string
	Transcript string
	Previous   string
	Analysis   string
}

const analysisSystemPrompt = `You are a professional werewolf game analyst reviewing a competitive match.
You receive one player's complete speech and the analyses of earlier speeches.
Assess the speech from a neutral third-party perspective: logic, claims,
accusations, and what it implies about the speaker's alignment. Do not use
any information a live audience would not have.`

const analysisUserTemplate = `Match: {{.MatchName}}
Board: {{.BoardType}}
Roles: {{.Roles}}
Night action order: {{.ActionSeq}}
Rules: {{.Rules}}

Players:
{{.PlayerInfo}}

Players who did not run for sheriff: {{.NoSheriff}}

Speech transcript:
{{.Transcript}}

Previous analyses:
{{.Previous}}

Analyze this speech.`

const commentarySystemTemplate = `You are a live commentator for a competitive werewolf match.
Match: {{.MatchName}}
Board: {{.BoardType}}
Roles: {{.Roles}}
Night action order: {{.ActionSeq}}
Rules: {{.Rules}}

Players:
{{.PlayerInfo}}

Players who did not run for sheriff: {{.NoSheriff}}

Rewrite written analyses as spoken-style commentary, energetic but accurate.
Wrap the final commentary in <commentary></commentary> tags.`

const commentaryUserTemplate = `Analysis to convert:
{{.Analysis}}`

var (
	analysisUserTmpl     = template.Must(template.New("analysis-user").Parse(analysisUserTemplate))
	commentarySystemTmpl = template.Must(template.New("commentary-system").Parse(commentarySystemTemplate))
	commentaryUserTmpl   = template.Must(template.New("commentary-user").Parse(commentaryUserTemplate))
)

func renderTemplate(tmpl *template.Template, data PromptData) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}

// BuildPromptData assembles the static prompt fields for one match.
func BuildPromptData(config *match.Config, board BoardConfig) PromptData {
	noSheriff := "none"
	if len(config.NoSheriff) > 0 {
		noSheriff = strings.Join(config.NoSheriff, ", ")
	}
	return PromptData{
		MatchName:  config.Name,
		BoardType:  config.BoardType,
		Roles:      board.Roles,
		ActionSeq:  board.ActionSeq,
		Rules:      board.Rules,
		PlayerInfo: BuildPlayerInfo(config),
		NoSheriff:  noSheriff,
	}
}

// BuildPlayerInfo lists seated players in seat order followed by the judge,
// one per line. Roles are deliberately omitted: analysis keeps a third-party
// viewpoint.
func BuildPlayerInfo(config *match.Config) string {
	type seated struct {
		seat string
		name string
	}

	var players []seated
	for _, p := range config.Participants {
		if p.Name == match.Judge || p.SeatLabel == "" || p.SeatLabel == match.NoSeat {
			continue
		}
		players = append(players, seated{seat: p.SeatLabel, name: p.Name})
	}
	sort.SliceStable(players, func(i, j int) bool {
		return seatOrder(players[i].seat) < seatOrder(players[j].seat)
	})

	lines := make([]string, 0, len(players)+1)
	for _, p := range players {
		lines = append(lines, fmt.Sprintf("%s %s", p.seat, p.name))
	}
	for _, p := range config.Participants {
		if p.Name == match.Judge {
			lines = append(lines, fmt.Sprintf("%s %s", match.Judge, p.Name))
			break
		}
	}
	return strings.Join(lines, "\n")
}

var seatNumberPattern = regexp.MustCompile(`\d+`)

// seatOrder extracts the numeric part of a seat label for sorting; labels
// without a number sort last.
func seatOrder(seat string) int {
	if m := seatNumberPattern.FindString(seat); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return 99
}
