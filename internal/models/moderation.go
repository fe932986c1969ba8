package models

import "time"

// Moderation actions.
const (
	ActionAllow = "allow"
	ActionFlag  = "flag"
	ActionBlock = "block"
)

// ModerationResult is the verdict produced for a single message. It is
// transient: attached to the message record and the alert, never stored
// as its own entity.
type ModerationResult struct {
	DecisionID    string   `json:"decision_id"`
	Action        string   `json:"action"`
	SeverityScore int      `json:"severity_score"` // 0-100
	Categories    []string `json:"categories"`     // highest-confidence first, may be empty
	Confidence    float64  `json:"confidence"`     // SeverityScore / 100
	Reasoning     string   `json:"reasoning"`
}

// MessageContext carries the conversational metadata the moderation
// pass needs alongside the raw content.
type MessageContext struct {
	ConversationID string
	SenderID       string
	SenderName     string
	SenderType     string
	SourceApp      string
	Timestamp      time.Time
}
