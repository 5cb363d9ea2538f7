package model

import (
	"time"

	"gorm.io/datatypes"
)

// HandRecord is the audit entry of one settled hand. Live table state is
// never persisted; this is written once the pot has been paid.
type HandRecord struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	LobbyCode      string `gorm:"size:16;index:idx_hand_lobby_no,priority:1;not null"`
	HandNo         int64  `gorm:"index:idx_hand_lobby_no,priority:2"`
	WinnerIdentity string `gorm:"size:64"`
	WinnerName     string `gorm:"size:64"`
	WinningRank    string `gorm:"size:32"`
	Pot            int64
	Voided         bool
	SeatsJSON      datatypes.JSON `gorm:"type:jsonb"` // per-seat hand, bet, delta
	SettledAt      time.Time
	CreatedAt      time.Time
}
