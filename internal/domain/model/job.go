package model

import (
	"encoding/json"
	"time"
)

type JobState string

const (
	JobStateWaiting   JobState = "waiting"
	JobStateActive    JobState = "active"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
	JobStateDelayed   JobState = "delayed"
	JobStateStalled   JobState = "stalled"
)

// Terminal reports whether a job in state s will never transition again.
func (s JobState) Terminal() bool {
	return s == JobStateCompleted || s == JobStateFailed
}

type JobType string

const (
	JobTypeGeneration JobType = "question-generation"
	JobTypeExport     JobType = "export-generation"
)

type GenerationPayload struct {
	Role       string   `json:"role"`
	Experience string   `json:"experience"`
	Topics     []string `json:"topics"`
	SessionID  string   `json:"session_id"`
	UserID     string   `json:"user_id"`
	CacheKey   string   `json:"cache_key"`
}

type ExportFormat string

const (
	ExportPDF  ExportFormat = "pdf"
	ExportCSV  ExportFormat = "csv"
	ExportDOCX ExportFormat = "docx"
)

func ValidExportFormat(f ExportFormat) bool {
	switch f {
	case ExportPDF, ExportCSV, ExportDOCX:
		return true
	}
	return false
}

type ExportPayload struct {
	SessionID string       `json:"session_id"`
	UserID    string       `json:"user_id"`
	Format    ExportFormat `json:"format"`
}

// JobPayload is a tagged union over the two job kinds. Exactly one of the
// variant pointers is set, selected by Type.
type JobPayload struct {
	Type       JobType            `json:"type"`
	Generation *GenerationPayload `json:"generation,omitempty"`
	Export     *ExportPayload     `json:"export,omitempty"`
}

// UserID returns the id of the user who enqueued the job. Both status
// endpoints check it before revealing anything about the job.
func (p JobPayload) UserID() string {
	switch p.Type {
	case JobTypeGeneration:
		if p.Generation != nil {
			return p.Generation.UserID
		}
	case JobTypeExport:
		if p.Export != nil {
			return p.Export.UserID
		}
	}
	return ""
}

// Job is one unit of asynchronous work. The queue exclusively owns every
// field except Payload, which is written once at enqueue time.
type Job struct {
	ID            string          `json:"id"`
	Payload       JobPayload      `json:"payload"`
	State         JobState        `json:"state"`
	Attempts      int             `json:"attempts"`
	MaxAttempts   int             `json:"max_attempts"`
	Progress      int             `json:"progress"`
	Result        json.RawMessage `json:"result,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// GenerationResult is the result payload of a completed generation job.
type GenerationResult struct {
	Count     int         `json:"count"`
	Questions []*Question `json:"questions"`
}

// ExportResult is the result payload of a completed export job.
type ExportResult struct {
	Filename string       `json:"filename"`
	Format   ExportFormat `json:"format"`
}
