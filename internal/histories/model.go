package histories

import (
	"encoding/json"
	"time"
)

// History is a persisted record of one lottery-number computation run.
// Records are append-only: created by their owner, never updated or deleted.
type History struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID        int64     `gorm:"column:user_id;not null;index:idx_histories_user_created,priority:1"`
	Mode          string    `gorm:"column:mode;size:64;not null"`
	TopDigitsMode int       `gorm:"column:top_digits_mode;not null"`
	ConfigJSON    string    `gorm:"column:config;type:text;not null"`
	Summary       string    `gorm:"column:summary;type:text"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime;not null;index:idx_histories_user_created,priority:2"`
}

// TableName exposes the table backing computation histories.
func (History) TableName() string {
	return "histories"
}

// Config is the serialized parameter set of a computation run. It is stored
// verbatim and returned to the client unchanged.
type Config struct {
	HistoryTop    []int  `json:"historyTop"`
	HistoryBottom []int  `json:"historyBottom,omitempty"`
	UseLastN      int    `json:"useLastN,omitempty"`
	WeightMode    string `json:"weightMode,omitempty"`
	Mode          string `json:"mode"`
	TopDigitsMode int    `json:"topDigitsMode"`
}

// Record is the client-facing view of a stored history.
type Record struct {
	ID            int64           `json:"id"`
	Mode          string          `json:"mode"`
	TopDigitsMode int             `json:"topDigitsMode"`
	Config        json.RawMessage `json:"config"`
	Summary       string          `json:"summary,omitempty"`
	CreatedAt     string          `json:"createdAt"`
}

func (h History) record() Record {
	return Record{
		ID:            h.ID,
		Mode:          h.Mode,
		TopDigitsMode: h.TopDigitsMode,
		Config:        json.RawMessage(h.ConfigJSON),
		Summary:       h.Summary,
		CreatedAt:     h.CreatedAt.UTC().Format(time.RFC3339),
	}
}
