package match

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lsm1103/ArenaAI/internal/transcript"
)

const (
	// Judge is the sentinel identity present in every roster.
	Judge = "judge"

	// NoSeat marks a participant without a positional seat label.
	NoSeat = "none"

	// DefaultFPS converts bare frame counts in time marks to milliseconds.
	DefaultFPS = 30.0
)

// Participant is one roster member of a match.
type Participant struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	SeatLabel string `json:"seat"`
}

// Config describes one match: the eligible speaker roster, the board setup,
// and the externally supplied phase time marks. It is loaded once per run
// and never modified.
type Config struct {
	Name         string                `json:"name"`
	BoardType    string                `json:"board_type"`
	Participants []Participant         `json:"participants"`
	NoSheriff    []string              `json:"no_sheriff"`
	TimeMarks    []transcript.TimeMark `json:"time_marks"`
}

type rawConfig struct {
	Name         string        `json:"name"`
	BoardType    string        `json:"board_type"`
	Participants []Participant `json:"participants"`
	NoSheriff    []string      `json:"no_sheriff"`
	TimeMarks    []struct {
		Time  string `json:"time"`
		Label string `json:"label"`
	} `json:"time_marks"`
}

// LoadFile parses a match config JSON file. Time marks accept "mm:ss",
// "hh:mm:ss", or a bare frame count converted at DefaultFPS; entries that
// parse to nothing are dropped. The judge sentinel is appended to the roster
// when absent.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read match config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and normalizes a match config document.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse match config: %w", err)
	}

	config := &Config{
		Name:      raw.Name,
		BoardType: raw.BoardType,
		NoSheriff: raw.NoSheriff,
	}
	if config.Name == "" {
		config.Name = "unnamed match"
	}
	if config.BoardType == "" {
		config.BoardType = "unknown board"
	}

	for _, p := range raw.Participants {
		if p.Name == "" {
			continue
		}
		if p.Role == "" {
			p.Role = "unknown role"
		}
		config.Participants = append(config.Participants, p)
	}

	if !config.hasParticipant(Judge) {
		config.Participants = append(config.Participants, Participant{
			Name:      Judge,
			Role:      Judge,
			SeatLabel: NoSeat,
		})
	}

	for _, mark := range raw.TimeMarks {
		if mark.Time == "" || mark.Label == "" {
			continue
		}
		startMS, ok := ParseTimeToMS(mark.Time, DefaultFPS)
		if !ok {
			continue
		}
		config.TimeMarks = append(config.TimeMarks, transcript.TimeMark{
			StartMS: startMS,
			Label:   mark.Label,
		})
	}
	sort.SliceStable(config.TimeMarks, func(i, j int) bool {
		return config.TimeMarks[i].StartMS < config.TimeMarks[j].StartMS
	})

	return config, nil
}

func (c *Config) hasParticipant(name string) bool {
	for _, p := range c.Participants {
		if p.Name == name {
			return true
		}
	}
	return false
}

// CandidateNames returns the roster names sorted, judge included.
func (c *Config) CandidateNames() []string {
	names := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// SeatLabels maps speaker names to seat labels for display substitution.
func (c *Config) SeatLabels() map[string]string {
	seats := make(map[string]string, len(c.Participants))
	for _, p := range c.Participants {
		seats[p.Name] = p.SeatLabel
	}
	return seats
}

// Roles maps speaker names to their game roles.
func (c *Config) Roles() map[string]string {
	roles := make(map[string]string, len(c.Participants))
	for _, p := range c.Participants {
		roles[p.Name] = p.Role
	}
	return roles
}

// SeatToName maps seat labels back to speaker names, skipping unseated
// participants.
func (c *Config) SeatToName() map[string]string {
	names := make(map[string]string, len(c.Participants))
	for _, p := range c.Participants {
		if p.SeatLabel != "" && p.SeatLabel != NoSeat {
			names[p.SeatLabel] = p.Name
		}
	}
	return names
}

// ParseTimeToMS converts a time-mark string to milliseconds. Accepted forms
// are "mm:ss", "hh:mm:ss", and a bare numeric frame count converted at the
// given frames-per-second rate.
func ParseTimeToMS(value string, fps float64) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if strings.Contains(value, ":") {
		parts := strings.Split(value, ":")
		fields := make([]int64, 0, len(parts))
		for _, part := range parts {
			n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil || n < 0 {
				return 0, false
			}
			fields = append(fields, n)
		}
		switch len(fields) {
		case 2:
			return (fields[0]*60 + fields[1]) * 1000, true
		case 3:
			return (fields[0]*3600 + fields[1]*60 + fields[2]) * 1000, true
		default:
			return 0, false
		}
	}

	frames, err := strconv.ParseFloat(value, 64)
	if err != nil || frames < 0 || fps <= 0 {
		return 0, false
	}
	return int64(frames * 1000 / fps), true
}
