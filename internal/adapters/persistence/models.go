package persistence

import (
	"time"
)

// PlayerModel represents the players table.
// (name, club) carries a unique index so concurrent creates cannot both succeed.
type PlayerModel struct {
	ID         int              `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string           `gorm:"column:name;not null;uniqueIndex:idx_players_name_club"`
	Country    string           `gorm:"column:country;not null"`
	Club       string           `gorm:"column:club;not null;uniqueIndex:idx_players_name_club"`
	Position   string           `gorm:"column:position;not null"`
	Age        int              `gorm:"column:age"`
	IsActive   bool             `gorm:"column:is_active;not null"` // no default tag: gorm would skip an explicit false
	CreatedAt  time.Time        `gorm:"column:created_at;not null;autoCreateTime"`
	Statistics []StatisticModel `gorm:"foreignKey:PlayerID;references:ID"`
	Awards     []AwardModel     `gorm:"foreignKey:PlayerID;references:ID"`
}

func (PlayerModel) TableName() string {
	return "players"
}

// StatisticModel represents the statistics table
type StatisticModel struct {
	ID            int          `gorm:"column:id;primaryKey;autoIncrement"`
	PlayerID      int          `gorm:"column:player_id;not null;index"`
	Player        *PlayerModel `gorm:"foreignKey:PlayerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Season        string       `gorm:"column:season;not null"`
	Goals         int          `gorm:"column:goals;not null;default:0"`
	Assists       int          `gorm:"column:assists;not null;default:0"`
	Matches       int          `gorm:"column:matches;not null;default:0"`
	YellowCards   int          `gorm:"column:yellow_cards;not null;default:0"`
	RedCards      int          `gorm:"column:red_cards;not null;default:0"`
	MinutesPlayed int          `gorm:"column:minutes_played;not null;default:0"`
}

func (StatisticModel) TableName() string {
	return "statistics"
}

// AwardModel represents the awards table
type AwardModel struct {
	ID        int          `gorm:"column:id;primaryKey;autoIncrement"`
	PlayerID  int          `gorm:"column:player_id;not null;index"`
	Player    *PlayerModel `gorm:"foreignKey:PlayerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	AwardName string       `gorm:"column:award_name;not null"`
	Year      int          `gorm:"column:year;not null"`
	Category  string       `gorm:"column:category;not null"`
}

func (AwardModel) TableName() string {
	return "awards"
}

// UserModel represents the users table used by credential checks
type UserModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Username  string    `gorm:"column:username;unique;not null"`
	Password  string    `gorm:"column:password;not null"` // bcrypt hash
	Role      string    `gorm:"column:role;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

// AllModels lists every model in foreign-key-safe migration order
func AllModels() []interface{} {
	return []interface{}{
		&PlayerModel{},
		&StatisticModel{},
		&AwardModel{},
		&UserModel{},
	}
}
