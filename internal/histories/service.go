package histories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultListLimit bounds how many records a single list call returns.
const DefaultListLimit = 20

var (
	// ErrMissingField indicates a required input field was absent.
	ErrMissingField = errors.New("histories: missing required field")
	// ErrInvalidUserID indicates the owner identifier is unusable.
	ErrInvalidUserID = errors.New("histories: invalid user id")

	errMissingDatabase = errors.New("histories: database connection required")
)

// CreateInput carries the validated-on-entry parameters of one computation
// run. Pointer fields distinguish "absent" from zero values.
type CreateInput struct {
	Mode          string
	TopDigitsMode *int
	HistoryTop    []int
	HistoryBottom []int
	UseLastN      int
	WeightMode    string
	Summary       string
}

// ServiceConfig describes the dependencies required by the history store.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
}

// Service manages persisted computation histories.
type Service struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewService constructs the history store.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{db: cfg.Database, clock: clock}, nil
}

// Create validates the input, serializes the configuration blob and persists
// a new history owned by userID. Nothing is written when validation fails.
func (s *Service) Create(ctx context.Context, userID int64, input CreateInput) (int64, error) {
	if userID <= 0 {
		return 0, ErrInvalidUserID
	}
	if err := validateInput(input); err != nil {
		return 0, err
	}

	config := Config{
		HistoryTop:    input.HistoryTop,
		HistoryBottom: input.HistoryBottom,
		UseLastN:      input.UseLastN,
		WeightMode:    input.WeightMode,
		Mode:          input.Mode,
		TopDigitsMode: *input.TopDigitsMode,
	}
	configJSON, err := json.Marshal(config)
	if err != nil {
		return 0, fmt.Errorf("histories: serialize config: %w", err)
	}

	history := History{
		UserID:        userID,
		Mode:          input.Mode,
		TopDigitsMode: *input.TopDigitsMode,
		ConfigJSON:    string(configJSON),
		Summary:       input.Summary,
		CreatedAt:     s.clock().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&history).Error; err != nil {
		return 0, fmt.Errorf("histories: insert history: %w", err)
	}
	return history.ID, nil
}

// ListRecent returns at most limit records owned by userID, newest first.
// The limit is clamped to [1, DefaultListLimit]; non-positive values select
// the default. An owner with no histories gets an empty slice, not an error.
func (s *Service) ListRecent(ctx context.Context, userID int64, limit int) ([]Record, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	var rows []History
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, fmt.Errorf("histories: list histories: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

func validateInput(input CreateInput) error {
	if strings.TrimSpace(input.Mode) == "" {
		return fmt.Errorf("%w: mode", ErrMissingField)
	}
	if input.TopDigitsMode == nil {
		return fmt.Errorf("%w: topDigitsMode", ErrMissingField)
	}
	if len(input.HistoryTop) == 0 {
		return fmt.Errorf("%w: historyTop", ErrMissingField)
	}
	return nil
}
