package player_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/player-soap-service/internal/domain/player"
	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
)

func validDraft() player.Draft {
	return player.Draft{
		Name:     "Leo Messi",
		Country:  "Argentina",
		Club:     "Inter Miami",
		Position: player.PositionForward,
		Age:      36,
	}
}

func requireValidationError(t *testing.T, err error) *shared.ValidationError {
	t.Helper()
	var validationErr *shared.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)
	return validationErr
}

func TestValidate_AcceptsValidDraft(t *testing.T) {
	d := validDraft()
	d.Statistics = []player.StatisticDraft{{Season: "2024", Goals: player.IntPtr(0), Matches: player.IntPtr(0)}}
	d.Awards = []player.AwardDraft{{AwardName: "Ballon d'Or", Year: player.IntPtr(2023), Category: "Individual"}}

	assert.NoError(t, player.Validate(d))
}

func TestValidate_RulesInOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *player.Draft)
		field   string
		message string
	}{
		{"missing name", func(d *player.Draft) { d.Name = "" }, "name", "Player name is required"},
		{"missing country", func(d *player.Draft) { d.Country = "" }, "country", "Player country is required"},
		{"missing club", func(d *player.Draft) { d.Club = "" }, "club", "Player club is required"},
		{"missing position", func(d *player.Draft) { d.Position = "" }, "position",
			"Invalid position. Must be one of: Forward, Midfielder, Defender, Goalkeeper"},
		{"unknown position", func(d *player.Draft) { d.Position = "Winger" }, "position",
			"Invalid position. Must be one of: Forward, Midfielder, Defender, Goalkeeper"},
		{"age below range", func(d *player.Draft) { d.Age = 14 }, "age", "Invalid age. Must be between 15 and 45"},
		{"age above range", func(d *player.Draft) { d.Age = 46 }, "age", "Invalid age. Must be between 15 and 45"},
		{"missing age", func(d *player.Draft) { d.Age = 0 }, "age", "Invalid age. Must be between 15 and 45"},
		{"statistic without season", func(d *player.Draft) {
			d.Statistics = []player.StatisticDraft{{Goals: player.IntPtr(1), Matches: player.IntPtr(1)}}
		}, "statistics[0].season", "Invalid statistics data"},
		{"statistic without goals", func(d *player.Draft) {
			d.Statistics = []player.StatisticDraft{{Season: "2024", Matches: player.IntPtr(1)}}
		}, "statistics[0].goals", "Invalid statistics data"},
		{"negative card count", func(d *player.Draft) {
			d.Statistics = []player.StatisticDraft{{Season: "2024", Goals: player.IntPtr(1), Matches: player.IntPtr(1), RedCards: player.IntPtr(-1)}}
		}, "statistics[0].redCards", "Invalid statistics data"},
		{"award without year", func(d *player.Draft) {
			d.Awards = []player.AwardDraft{{AwardName: "MVP", Category: "Team"}}
		}, "awards[0].year", "Invalid award data"},
		{"first failure wins", func(d *player.Draft) { d.Name = ""; d.Age = 99 }, "name", "Player name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			validationErr := requireValidationError(t, player.Validate(d))

			assert.Equal(t, tt.field, validationErr.Field)
			assert.Equal(t, tt.message, validationErr.Message)
		})
	}
}

func TestValidate_AgeBoundariesAreInclusive(t *testing.T) {
	for _, age := range []int{player.MinAge, player.MaxAge} {
		d := validDraft()
		d.Age = age
		assert.NoError(t, player.Validate(d), "age %d", age)
	}
}

func TestValidateAll_EmptyBatch(t *testing.T) {
	validationErr := requireValidationError(t, player.ValidateAll(nil))

	assert.Equal(t, "No players provided for bulk creation", validationErr.Message)
}

func TestValidateAll_NamesOffendingDraft(t *testing.T) {
	bad := validDraft()
	bad.Club = ""

	validationErr := requireValidationError(t, player.ValidateAll([]player.Draft{validDraft(), bad}))

	assert.Equal(t, "players[1].club", validationErr.Field)
	assert.Equal(t, "Player 2: Player club is required", validationErr.Message)
}

func TestValidateStatistics(t *testing.T) {
	assert.NoError(t, player.ValidateStatistics(nil))
	assert.NoError(t, player.ValidateStatistics([]player.StatisticDraft{
		{Season: "2024", Goals: player.IntPtr(3), Matches: player.IntPtr(4)},
	}))

	validationErr := requireValidationError(t, player.ValidateStatistics([]player.StatisticDraft{
		{Season: "2024", Goals: player.IntPtr(3), Matches: player.IntPtr(4)},
		{Season: "2025"},
	}))
	assert.Equal(t, "statistics[1]", validationErr.Field)
	assert.Equal(t, "Invalid statistics data", validationErr.Message)
}

func TestDraft_ConversionDefaults(t *testing.T) {
	d := validDraft()
	assert.True(t, d.Active())

	d.IsActive = player.BoolPtr(false)
	assert.False(t, d.Active())

	stat := player.StatisticDraft{Season: "2024", Goals: player.IntPtr(10), Assists: player.IntPtr(5), Matches: player.IntPtr(20)}.ToStatistic()
	assert.Equal(t, player.Statistic{Season: "2024", Goals: 10, Assists: 5, Matches: 20}, stat)

	assert.Nil(t, player.StatisticsFromDrafts(nil))
	assert.NotNil(t, player.StatisticsFromDrafts([]player.StatisticDraft{}))
}
