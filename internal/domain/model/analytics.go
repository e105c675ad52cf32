package model

import "time"

// ActivityEvent is one tracked user action (question generated, export
// produced, ...). Kept in a capped per-user log for the activity feed.
type ActivityEvent struct {
	Type      string         `json:"type"`
	Meta      map[string]any `json:"meta,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// TopicCount pairs a topic with its popularity counter.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int64  `json:"count"`
}
