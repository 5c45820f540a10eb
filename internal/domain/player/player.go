package player

import "time"

// Position is the field position a player is registered for
type Position string

const (
	PositionForward    Position = "Forward"
	PositionMidfielder Position = "Midfielder"
	PositionDefender   Position = "Defender"
	PositionGoalkeeper Position = "Goalkeeper"
)

// Positions lists every accepted position in display order
var Positions = []Position{PositionForward, PositionMidfielder, PositionDefender, PositionGoalkeeper}

// Age bounds (inclusive)
const (
	MinAge = 15
	MaxAge = 45
)

// Player is the aggregate root: a player plus the statistics and awards it owns.
// Statistics and Awards are never nil on a Player returned by a repository.
type Player struct {
	ID         int
	Name       string
	Country    string
	Club       string
	Position   Position
	Age        int
	IsActive   bool
	CreatedAt  time.Time
	Statistics []Statistic
	Awards     []Award
}

// Statistic is one season line owned by a player
type Statistic struct {
	Season        string
	Goals         int
	Assists       int
	Matches       int
	YellowCards   int
	RedCards      int
	MinutesPlayed int
}

// Award is one honour owned by a player
type Award struct {
	AwardName string
	Year      int
	Category  string
}

// Draft is caller-supplied, not yet validated data for a player aggregate.
//
// Nil Statistics/Awards mean "not supplied" (update leaves the stored set alone);
// an empty non-nil slice means "replace with nothing".
type Draft struct {
	Name       string           `validate:"required"`
	Country    string           `validate:"required"`
	Club       string           `validate:"required"`
	Position   Position         `validate:"required,position"`
	Age        int              `validate:"required,min=15,max=45"`
	IsActive   *bool            `validate:"-"`
	Statistics []StatisticDraft `validate:"omitempty,dive"`
	Awards     []AwardDraft     `validate:"omitempty,dive"`
}

// StatisticDraft carries optional numeric fields as pointers so that a missing or
// non-numeric value can be told apart from zero.
type StatisticDraft struct {
	Season        string `validate:"required"`
	Goals         *int   `validate:"required,min=0"`
	Assists       *int   `validate:"omitempty,min=0"`
	Matches       *int   `validate:"required,min=0"`
	YellowCards   *int   `validate:"omitempty,min=0"`
	RedCards      *int   `validate:"omitempty,min=0"`
	MinutesPlayed *int   `validate:"omitempty,min=0"`
}

// AwardDraft is a single award as supplied by a caller
type AwardDraft struct {
	AwardName string `validate:"required"`
	Year      *int   `validate:"required,gt=0"`
	Category  string `validate:"required"`
}

// Active resolves the draft's IsActive flag, defaulting to true
func (d Draft) Active() bool {
	if d.IsActive == nil {
		return true
	}
	return *d.IsActive
}

// ToStatistic coerces optional counters to zero
func (s StatisticDraft) ToStatistic() Statistic {
	return Statistic{
		Season:        s.Season,
		Goals:         valueOrZero(s.Goals),
		Assists:       valueOrZero(s.Assists),
		Matches:       valueOrZero(s.Matches),
		YellowCards:   valueOrZero(s.YellowCards),
		RedCards:      valueOrZero(s.RedCards),
		MinutesPlayed: valueOrZero(s.MinutesPlayed),
	}
}

// ToAward converts a validated award draft
func (a AwardDraft) ToAward() Award {
	return Award{
		AwardName: a.AwardName,
		Year:      valueOrZero(a.Year),
		Category:  a.Category,
	}
}

// StatisticsFromDrafts converts a draft collection, preserving nil
func StatisticsFromDrafts(drafts []StatisticDraft) []Statistic {
	if drafts == nil {
		return nil
	}
	stats := make([]Statistic, 0, len(drafts))
	for _, d := range drafts {
		stats = append(stats, d.ToStatistic())
	}
	return stats
}

// AwardsFromDrafts converts a draft collection, preserving nil
func AwardsFromDrafts(drafts []AwardDraft) []Award {
	if drafts == nil {
		return nil
	}
	awards := make([]Award, 0, len(drafts))
	for _, d := range drafts {
		awards = append(awards, d.ToAward())
	}
	return awards
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// IntPtr is a convenience for building drafts in code and tests
func IntPtr(v int) *int {
	return &v
}

// BoolPtr is a convenience for building drafts in code and tests
func BoolPtr(v bool) *bool {
	return &v
}
