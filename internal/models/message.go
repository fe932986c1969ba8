package models

import (
	"time"

	"github.com/lib/pq"
)

// Moderation status values for a message. Transitions are one-way:
// pending -> safe | flagged | blocked, terminal once set.
const (
	ModerationPending = "pending"
	ModerationSafe    = "safe"
	ModerationFlagged = "flagged"
	ModerationBlocked = "blocked"
)

// Message represents a captured message stored in the 'messages' table.
// The content record is immutable; the pipeline mutates it exactly once
// to attach moderation results.
type Message struct {
	ID                string         `db:"id" json:"id"`
	ChildID           string         `db:"child_id" json:"child_id"`
	Content           string         `db:"content" json:"content"`
	ContentType       string         `db:"content_type" json:"content_type"` // "text", "image", "video"
	SourceApp         string         `db:"source_app" json:"source_app"`
	SenderID          string         `db:"sender_id" json:"sender_id"`
	SenderName        string         `db:"sender_name" json:"sender_name"`
	SenderType        string         `db:"sender_type" json:"sender_type"` // "contact", "unknown", "group"
	ConversationID    string         `db:"conversation_id" json:"conversation_id"`
	SentAt            time.Time      `db:"sent_at" json:"sent_at"`
	ReceivedAt        time.Time      `db:"received_at" json:"received_at"`
	ModerationStatus  string         `db:"moderation_status" json:"moderation_status"`
	DecisionID        *string        `db:"decision_id" json:"decision_id,omitempty"`
	SeverityScore     *int           `db:"severity_score" json:"severity_score,omitempty"` // NULL until moderated
	FlaggedCategories pq.StringArray `db:"flagged_categories" json:"flagged_categories"`
	IsAlertGenerated  bool           `db:"is_alert_generated" json:"is_alert_generated"`
	AlertID           *string        `db:"alert_id" json:"alert_id,omitempty"` // set at most once
}
