package settings

import (
	"fmt"

	"github.com/t-1mka/QuizBattle/internal/protocol"
)

// Defaults applied to zero-valued raw settings.
const (
	DefaultTopic         = "Общие знания"
	DefaultQuestionCount = 10
	DefaultDifficulty    = "medium"
	DefaultNumOptions    = 4
	DefaultGameMode      = "classic"
)

// Unknown is the sentinel shown for enum values the client does not know.
const Unknown = "—"

var difficultyLabels = map[string]string{
	"easy":   "Лёгкая",
	"medium": "Средняя",
	"hard":   "Сложная",
}

var modeLabels = map[string]string{
	"classic": "Классика",
	"ffa":     "Все против всех",
	"team":    "Командный",
}

// Projection is the display-ready settings snapshot. Comparable with ==.
type Projection struct {
	Topic         string
	QuestionCount string
	Difficulty    string
	Mode          string
}

// Normalize fills zero-valued fields with their defaults. It never touches
// non-zero values, including unknown enum strings.
func Normalize(raw protocol.Settings) protocol.Settings {
	if raw.Topic == "" {
		raw.Topic = DefaultTopic
	}
	if raw.QuestionCount <= 0 {
		raw.QuestionCount = DefaultQuestionCount
	}
	if raw.Difficulty == "" {
		raw.Difficulty = DefaultDifficulty
	}
	if raw.NumOptions < 2 {
		raw.NumOptions = DefaultNumOptions
	}
	if raw.GameMode == "" {
		raw.GameMode = DefaultGameMode
	}
	return raw
}

// Project maps raw settings onto human-readable labels. Pure: equal input
// yields an equal Projection.
func Project(raw protocol.Settings) Projection {
	raw = Normalize(raw)
	return Projection{
		Topic:         raw.Topic,
		QuestionCount: fmt.Sprintf("%d шт.", raw.QuestionCount),
		Difficulty:    label(difficultyLabels, raw.Difficulty),
		Mode:          label(modeLabels, raw.GameMode),
	}
}

func label(table map[string]string, key string) string {
	if l, ok := table[key]; ok {
		return l
	}
	return Unknown
}

// Diff reports which display fields changed between two projections, in a
// fixed order. Empty for identical projections.
func Diff(prev, next Projection) []string {
	var changed []string
	if prev.Topic != next.Topic {
		changed = append(changed, "topic")
	}
	if prev.QuestionCount != next.QuestionCount {
		changed = append(changed, "question_count")
	}
	if prev.Difficulty != next.Difficulty {
		changed = append(changed, "difficulty")
	}
	if prev.Mode != next.Mode {
		changed = append(changed, "game_mode")
	}
	return changed
}
