package sim

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownDifficulty is returned for difficulty names outside easy/medium/hard.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrInvalidSettings is returned when DifficultySettings fail validation.
	ErrInvalidSettings = errors.New("invalid difficulty settings")
)

const (
	MinAgentCount = 2
	MaxAgentCount = 5

	defaultMinSeparation = 3
)

// Difficulty names one of the built-in presets.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
	difficultyCount // sentinel
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty accepts "easy", "medium" or "hard", case-insensitively.
func ParseDifficulty(name string) (Difficulty, error) {
	for d := DifficultyEasy; d < difficultyCount; d++ {
		if strings.EqualFold(strings.TrimSpace(name), d.String()) {
			return d, nil
		}
	}
	return DifficultyEasy, fmt.Errorf("%q: %w", name, ErrUnknownDifficulty)
}

// DifficultySettings configures one round.
type DifficultySettings struct {
	Name            string `yaml:"name"`
	AgentCount      int    `yaml:"agent_count"`      // 2..5 roster size
	ScoreMultiplier int    `yaml:"score_multiplier"` // scales the target reward
	TargetScore     int    `yaml:"target_score"`     // score that wins the round
	TickRate        int    `yaml:"tick_rate"`        // simulation ticks per second for front-ends
	MinSeparation   int    `yaml:"min_separation"`   // respawn clearance on both axes, 0 means 3
}

// Validate reports the first out-of-range field.
func (s DifficultySettings) Validate() error {
	switch {
	case s.AgentCount < MinAgentCount || s.AgentCount > MaxAgentCount:
		return fmt.Errorf("agent_count %d not in [%d,%d]: %w", s.AgentCount, MinAgentCount, MaxAgentCount, ErrInvalidSettings)
	case s.ScoreMultiplier <= 0:
		return fmt.Errorf("score_multiplier %d must be positive: %w", s.ScoreMultiplier, ErrInvalidSettings)
	case s.TargetScore <= 0:
		return fmt.Errorf("target_score %d must be positive: %w", s.TargetScore, ErrInvalidSettings)
	case s.TickRate <= 0:
		return fmt.Errorf("tick_rate %d must be positive: %w", s.TickRate, ErrInvalidSettings)
	case s.MinSeparation < 0:
		return fmt.Errorf("min_separation %d must not be negative: %w", s.MinSeparation, ErrInvalidSettings)
	}
	return nil
}

// withDefaults fills the pacing fields a hand-built struct tends to leave at zero.
func (s DifficultySettings) withDefaults() DifficultySettings {
	if s.TickRate == 0 {
		s.TickRate = Preset(DifficultyEasy).TickRate
	}
	if s.MinSeparation == 0 {
		s.MinSeparation = defaultMinSeparation
	}
	return s
}

// Preset returns the built-in settings for d.
func Preset(d Difficulty) DifficultySettings {
	switch d {
	case DifficultyMedium:
		return DifficultySettings{Name: "medium", AgentCount: 4, ScoreMultiplier: 2, TargetScore: 100, TickRate: 4, MinSeparation: defaultMinSeparation}
	case DifficultyHard:
		return DifficultySettings{Name: "hard", AgentCount: 5, ScoreMultiplier: 3, TargetScore: 150, TickRate: 5, MinSeparation: defaultMinSeparation}
	default:
		return DifficultySettings{Name: "easy", AgentCount: 3, ScoreMultiplier: 1, TargetScore: 50, TickRate: 3, MinSeparation: defaultMinSeparation}
	}
}

// DifficultyTable maps each difficulty to its settings.
type DifficultyTable map[Difficulty]DifficultySettings

// DefaultDifficulties returns a fresh table of the built-in presets.
func DefaultDifficulties() DifficultyTable {
	t := make(DifficultyTable, difficultyCount)
	for d := DifficultyEasy; d < difficultyCount; d++ {
		t[d] = Preset(d)
	}
	return t
}

// Get returns the settings for d, falling back to the built-in preset.
func (t DifficultyTable) Get(d Difficulty) DifficultySettings {
	if s, ok := t[d]; ok {
		return s
	}
	return Preset(d)
}

// difficultyOverride mirrors DifficultySettings with optional fields so a
// config file only has to name what it changes.
type difficultyOverride struct {
	AgentCount      *int `yaml:"agent_count"`
	ScoreMultiplier *int `yaml:"score_multiplier"`
	TargetScore     *int `yaml:"target_score"`
	TickRate        *int `yaml:"tick_rate"`
	MinSeparation   *int `yaml:"min_separation"`
}

func (o difficultyOverride) apply(s DifficultySettings) DifficultySettings {
	if o.AgentCount != nil {
		s.AgentCount = *o.AgentCount
	}
	if o.ScoreMultiplier != nil {
		s.ScoreMultiplier = *o.ScoreMultiplier
	}
	if o.TargetScore != nil {
		s.TargetScore = *o.TargetScore
	}
	if o.TickRate != nil {
		s.TickRate = *o.TickRate
	}
	if o.MinSeparation != nil {
		s.MinSeparation = *o.MinSeparation
	}
	return s
}

// LoadDifficulties reads a YAML mapping of difficulty name to settings and
// layers it over the built-in presets:
//
//	easy:
//	  agent_count: 2
//	hard:
//	  target_score: 300
func LoadDifficulties(r io.Reader) (DifficultyTable, error) {
	var raw map[string]difficultyOverride
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode difficulties: %w", err)
	}
	table := DefaultDifficulties()
	for name, o := range raw {
		d, err := ParseDifficulty(name)
		if err != nil {
			return nil, err
		}
		s := o.apply(table[d]).withDefaults()
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("difficulty %s: %w", d, err)
		}
		table[d] = s
	}
	return table, nil
}

// LoadDifficultyFile is LoadDifficulties on the named file. An empty path
// yields the built-in presets.
func LoadDifficultyFile(path string) (DifficultyTable, error) {
	if path == "" {
		return DefaultDifficulties(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open difficulty config: %w", err)
	}
	defer f.Close()
	return LoadDifficulties(f)
}
