package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunStatus is the outcome of the most recent generation run.
type RunStatus string

const (
	RunStatusNever   RunStatus = "NEVER_RUN"
	RunStatusOK      RunStatus = "OK"
	RunStatusPartial RunStatus = "PARTIAL"
	RunStatusError   RunStatus = "ERROR"
	RunStatusSkipped RunStatus = "SKIPPED"
)

// FeedSettings is the product-selection half of a feed configuration, stored
// as JSONB.
type FeedSettings struct {
	Categories         []uuid.UUID `json:"categories"`
	ExcludeKeywords    []string    `json:"excludeKeywords,omitempty"`
	ExcludeSkus        []string    `json:"excludeSkus,omitempty"`
	IncludeOnlyActive  bool        `json:"includeOnlyActive"`
	IncludeOnlyInStock bool        `json:"includeOnlyInStock"`
	OutputFileName     string      `json:"outputFileName,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (s FeedSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB retrieval
func (s *FeedSettings) Scan(value interface{}) error {
	if value == nil {
		*s = FeedSettings{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, s)
}

// FeedSchedule is the scheduling half of a feed configuration plus the last
// run outcome, stored as JSONB.
type FeedSchedule struct {
	Enabled         bool       `json:"enabled"`
	Cron            string     `json:"cron,omitempty"`
	IntervalMinutes int        `json:"intervalMinutes,omitempty"`
	LastRunAt       *time.Time `json:"lastRunAt,omitempty"`
	LastStatus      RunStatus  `json:"lastStatus,omitempty"`
	LastError       string     `json:"lastError,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (s FeedSchedule) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB retrieval
func (s *FeedSchedule) Scan(value interface{}) error {
	if value == nil {
		*s = FeedSchedule{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, s)
}

// FeedConfig is one marketplace feed definition.
type FeedConfig struct {
	ID       uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name     string       `gorm:"type:varchar(255);not null;uniqueIndex:idx_feed_configs_name" json:"name"`
	Settings FeedSettings `gorm:"type:jsonb;not null;default:'{}'" json:"settings"`
	Schedule FeedSchedule `gorm:"type:jsonb;not null;default:'{}'" json:"schedule"`

	CreatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for FeedConfig
func (FeedConfig) TableName() string {
	return "feed_configs"
}

// ScheduleSpec returns the cron spec driving this feed, or "" when the feed
// is not periodically scheduled.
func (f *FeedConfig) ScheduleSpec() string {
	if !f.Schedule.Enabled {
		return ""
	}
	if f.Schedule.Cron != "" {
		return f.Schedule.Cron
	}
	if f.Schedule.IntervalMinutes > 0 {
		return fmt.Sprintf("@every %dm", f.Schedule.IntervalMinutes)
	}
	return ""
}

// CreateFeedRequest is the payload for creating a feed.
type CreateFeedRequest struct {
	Name     string       `json:"name" binding:"required,min=1,max=255"`
	Settings FeedSettings `json:"settings" binding:"required"`
	Schedule FeedSchedule `json:"schedule"`
}

// UpdateFeedRequest is the payload for partially updating a feed. Only fields
// present in the payload override the stored configuration.
type UpdateFeedRequest struct {
	Name     *string            `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Settings *FeedSettingsPatch `json:"settings,omitempty"`
	Schedule *FeedSchedulePatch `json:"schedule,omitempty"`
}

// FeedSettingsPatch carries per-field optional overrides for FeedSettings.
type FeedSettingsPatch struct {
	Categories         *[]uuid.UUID `json:"categories,omitempty"`
	ExcludeKeywords    *[]string    `json:"excludeKeywords,omitempty"`
	ExcludeSkus        *[]string    `json:"excludeSkus,omitempty"`
	IncludeOnlyActive  *bool        `json:"includeOnlyActive,omitempty"`
	IncludeOnlyInStock *bool        `json:"includeOnlyInStock,omitempty"`
	OutputFileName     *string      `json:"outputFileName,omitempty"`
}

// FeedSchedulePatch carries per-field optional overrides for FeedSchedule.
type FeedSchedulePatch struct {
	Enabled         *bool   `json:"enabled,omitempty"`
	Cron            *string `json:"cron,omitempty"`
	IntervalMinutes *int    `json:"intervalMinutes,omitempty"`
}
