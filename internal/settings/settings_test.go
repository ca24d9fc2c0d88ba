package settings

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/t-1mka/QuizBattle/internal/protocol"
)

func TestProjectDefaults(t *testing.T) {
	p := Project(protocol.Settings{})
	require.Equal(t, Projection{
		Topic:         "Общие знания",
		QuestionCount: "10 шт.",
		Difficulty:    "Средняя",
		Mode:          "Классика",
	}, p)
}

func TestProjectLabels(t *testing.T) {
	cases := []struct {
		name string
		raw  protocol.Settings
		want Projection
	}{
		{
			name: "hard team",
			raw:  protocol.Settings{Topic: "Космос", QuestionCount: 20, Difficulty: "hard", NumOptions: 6, GameMode: "team"},
			want: Projection{Topic: "Космос", QuestionCount: "20 шт.", Difficulty: "Сложная", Mode: "Командный"},
		},
		{
			name: "easy ffa",
			raw:  protocol.Settings{Topic: "Кино", QuestionCount: 5, Difficulty: "easy", NumOptions: 4, GameMode: "ffa"},
			want: Projection{Topic: "Кино", QuestionCount: "5 шт.", Difficulty: "Лёгкая", Mode: "Все против всех"},
		},
		{
			name: "unknown enums project to the sentinel",
			raw:  protocol.Settings{Topic: "Кино", QuestionCount: 5, Difficulty: "nightmare", NumOptions: 4, GameMode: "battle-royale"},
			want: Projection{Topic: "Кино", QuestionCount: "5 шт.", Difficulty: Unknown, Mode: Unknown},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Project(tc.raw))
		})
	}
}

func TestProjectIsIdempotent(t *testing.T) {
	raw := protocol.Settings{Topic: "История", QuestionCount: 15, Difficulty: "medium", NumOptions: 4, GameMode: "classic"}
	first := Project(raw)
	second := Project(raw)
	require.Equal(t, first, second)
	require.Empty(t, Diff(first, second))
}

func TestDiffReportsChangedFields(t *testing.T) {
	base := Project(protocol.Settings{Topic: "История", QuestionCount: 15, Difficulty: "medium", GameMode: "classic", NumOptions: 4})
	next := Project(protocol.Settings{Topic: "Космос", QuestionCount: 15, Difficulty: "hard", GameMode: "classic", NumOptions: 4})
	require.Equal(t, []string{"topic", "difficulty"}, Diff(base, next))
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	raw := protocol.Settings{Topic: "Космос", QuestionCount: 3, Difficulty: "weird", NumOptions: 2, GameMode: "ffa"}
	require.Equal(t, raw, Normalize(raw))

	// num_options below the floor falls back to the default.
	raw.NumOptions = 1
	require.Equal(t, 4, Normalize(raw).NumOptions)
}
