package models

import "time"

// Alert severity values, ranked by response urgency.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Alert status values. new -> acknowledged | false_positive -> resolved,
// driven by parent actions.
const (
	AlertStatusNew           = "new"
	AlertStatusAcknowledged  = "acknowledged"
	AlertStatusResolved      = "resolved"
	AlertStatusFalsePositive = "false_positive"
)

// Alert represents an alert stored in the 'alerts' table.
type Alert struct {
	ID              string     `db:"id" json:"id"`
	FamilyID        string     `db:"family_id" json:"family_id"`
	ChildID         string     `db:"child_id" json:"child_id"`
	Severity        string     `db:"severity" json:"severity"`
	Category        string     `db:"category" json:"category"`
	Title           string     `db:"title" json:"title"`
	Description     string     `db:"description" json:"description"`
	SuggestedAction string     `db:"suggested_action" json:"suggested_action"`
	ContextMessages string     `db:"context_messages" json:"context_messages"` // JSON snapshot, never refreshed
	AIReasoning     string     `db:"ai_reasoning" json:"ai_reasoning"`
	Status          string     `db:"status" json:"status"`
	AcknowledgedBy  *string    `db:"acknowledged_by" json:"acknowledged_by,omitempty"`
	AcknowledgedAt  *time.Time `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	ParentNotes     *string    `db:"parent_notes" json:"parent_notes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// ContextMessage is one entry of an alert's conversation snapshot,
// captured at alert creation time.
type ContextMessage struct {
	Content    string    `json:"content"`
	SenderName string    `json:"sender_name"`
	SentAt     time.Time `json:"sent_at"`
}
