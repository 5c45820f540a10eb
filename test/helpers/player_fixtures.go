package helpers

import (
	"fmt"

	"github.com/andrescamacho/player-soap-service/internal/domain/player"
)

// CreateTestDraft builds a valid draft with sensible defaults
func CreateTestDraft(name, club string) player.Draft {
	return player.Draft{
		Name:     name,
		Country:  "Portugal",
		Club:     club,
		Position: player.PositionForward,
		Age:      27,
	}
}

// CreateTestStatisticDraft builds a statistics entry with goals and matches set
func CreateTestStatisticDraft(season string, goals, matches int) player.StatisticDraft {
	return player.StatisticDraft{
		Season:  season,
		Goals:   player.IntPtr(goals),
		Matches: player.IntPtr(matches),
	}
}

// CreateTestAwardDraft builds an award entry
func CreateTestAwardDraft(name string, year int) player.AwardDraft {
	return player.AwardDraft{
		AwardName: name,
		Year:      player.IntPtr(year),
		Category:  "Individual",
	}
}

// CreateTestPlayer builds an unsaved aggregate with one statistic and one award
func CreateTestPlayer(name, club string) *player.Player {
	return &player.Player{
		Name:     name,
		Country:  "Portugal",
		Club:     club,
		Position: player.PositionForward,
		Age:      27,
		IsActive: true,
		Statistics: []player.Statistic{
			{Season: "2023/24", Goals: 20, Assists: 5, Matches: 30},
		},
		Awards: []player.Award{
			{AwardName: "Golden Boot", Year: 2024, Category: "Individual"},
		},
	}
}

// CreateTestDrafts builds n valid drafts with distinct names at one club
func CreateTestDrafts(n int, club string) []player.Draft {
	drafts := make([]player.Draft, 0, n)
	for i := 1; i <= n; i++ {
		drafts = append(drafts, CreateTestDraft(fmt.Sprintf("Player %d", i), club))
	}
	return drafts
}
