package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryReport describes what one configured category contributed to a run.
type CategoryReport struct {
	CategoryID   uuid.UUID `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	Sheet        string    `json:"sheet,omitempty"`
	Products     int       `json:"products"`
	Appended     int       `json:"appended"`
	SkipReason   string    `json:"skipReason,omitempty"`
}

// GenerationReport summarizes one feed generation run.
type GenerationReport struct {
	FeedID       uuid.UUID        `json:"feedId"`
	StartedAt    time.Time        `json:"startedAt"`
	FinishedAt   time.Time        `json:"finishedAt"`
	Status       RunStatus        `json:"status"`
	TemplatePath string           `json:"templatePath,omitempty"`
	Categories   []CategoryReport `json:"categories"`
	TotalRows    int              `json:"totalRows"`
	ExcludedSkus []string         `json:"excludedSkus,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// GenerateResponse is the payload of a successful manual generation.
type GenerateResponse struct {
	Path     string            `json:"path"`
	FileName string            `json:"fileName"`
	URL      string            `json:"url"`
	Report   *GenerationReport `json:"report"`
}
