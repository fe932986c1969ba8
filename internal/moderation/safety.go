package moderation

import "safeguard/internal/models"

// SafetyScore recomputes a child's rolling 0-100 safety score from a
// fresh snapshot of recent activity. Callers pass the last 100 messages
// and last 20 alerts for the child; the result is a full recomputation,
// not an incremental adjustment.
//
// Only "flagged" messages deduct via the per-message rule; "blocked"
// messages deduct nothing here (they surface through alert deductions).
func SafetyScore(recentMessages []*models.Message, recentAlerts []*models.Alert) int {
	score := 100

	for _, m := range recentMessages {
		if m.ModerationStatus == models.ModerationFlagged {
			score -= 2
		}
	}

	for _, a := range recentAlerts {
		switch a.Severity {
		case models.SeverityCritical:
			score -= 15
		case models.SeverityHigh:
			score -= 10
		case models.SeverityMedium:
			score -= 5
		case models.SeverityLow:
			score -= 2
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
