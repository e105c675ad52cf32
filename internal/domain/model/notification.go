package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationJobComplete NotificationType = "job_complete"
	NotificationJobFailed   NotificationType = "job_failed"
)

// NotificationEvent is one job-outcome event delivered to the user who
// enqueued the job. ID and Timestamp are stamped by the hub at publish time.
// Read is derived from the per-user acknowledged-id set when listing.
type NotificationEvent struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	JobType   JobType          `json:"job_type"`
	JobID     string           `json:"job_id"`
	Message   string           `json:"message"`
	Result    json.RawMessage  `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}

// NewJobCompleteEvent builds the unstamped envelope for a successful job.
func NewJobCompleteEvent(jobType JobType, jobID string, result any) *NotificationEvent {
	raw, _ := json.Marshal(result)
	return &NotificationEvent{
		Type:    NotificationJobComplete,
		JobType: jobType,
		JobID:   jobID,
		Message: fmt.Sprintf("Your %s job has completed successfully", jobType),
		Result:  raw,
	}
}

// NewJobFailedEvent builds the unstamped envelope for an exhausted job.
func NewJobFailedEvent(jobType JobType, jobID string, cause string) *NotificationEvent {
	return &NotificationEvent{
		Type:    NotificationJobFailed,
		JobType: jobType,
		JobID:   jobID,
		Message: fmt.Sprintf("Your %s job has failed", jobType),
		Error:   cause,
	}
}
