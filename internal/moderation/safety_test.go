package moderation

import (
	"testing"

	"safeguard/internal/models"
)

func flaggedMessages(n int) []*models.Message {
	messages := make([]*models.Message, n)
	for i := range messages {
		messages[i] = &models.Message{ModerationStatus: models.ModerationFlagged}
	}
	return messages
}

func alertsWithSeverity(severity string, n int) []*models.Alert {
	alerts := make([]*models.Alert, n)
	for i := range alerts {
		alerts[i] = &models.Alert{Severity: severity}
	}
	return alerts
}

func TestSafetyScoreNoActivity(t *testing.T) {
	if got := SafetyScore(nil, nil); got != 100 {
		t.Errorf("SafetyScore(nil, nil) = %d, want 100", got)
	}
}

func TestSafetyScoreFlaggedDeduction(t *testing.T) {
	// Each flagged message deducts exactly 2 points.
	if got := SafetyScore(flaggedMessages(3), nil); got != 94 {
		t.Errorf("score = %d, want 94", got)
	}
}

func TestSafetyScoreBlockedMessagesDeductNothing(t *testing.T) {
	// Blocked messages do not count toward the per-message deduction;
	// their weight comes in through alert deductions instead.
	messages := []*models.Message{
		{ModerationStatus: models.ModerationBlocked},
		{ModerationStatus: models.ModerationBlocked},
		{ModerationStatus: models.ModerationSafe},
		{ModerationStatus: models.ModerationPending},
	}
	if got := SafetyScore(messages, nil); got != 100 {
		t.Errorf("score = %d, want 100", got)
	}
}

func TestSafetyScoreAlertDeductions(t *testing.T) {
	cases := []struct {
		severity string
		want     int
	}{
		{models.SeverityCritical, 85},
		{models.SeverityHigh, 90},
		{models.SeverityMedium, 95},
		{models.SeverityLow, 98},
	}
	for _, tc := range cases {
		t.Run(tc.severity, func(t *testing.T) {
			if got := SafetyScore(nil, alertsWithSeverity(tc.severity, 1)); got != tc.want {
				t.Errorf("score with one %s alert = %d, want %d", tc.severity, got, tc.want)
			}
		})
	}
}

func TestSafetyScoreCumulativeDeductions(t *testing.T) {
	alerts := []*models.Alert{
		{Severity: models.SeverityCritical},
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityMedium},
	}
	// 100 - 2*2 - 15 - 10 - 5 = 66
	if got := SafetyScore(flaggedMessages(2), alerts); got != 66 {
		t.Errorf("score = %d, want 66", got)
	}
}

func TestSafetyScoreClampedAtZero(t *testing.T) {
	if got := SafetyScore(nil, alertsWithSeverity(models.SeverityCritical, 1000)); got != 0 {
		t.Errorf("score = %d, want 0", got)
	}
	if got := SafetyScore(flaggedMessages(1000), nil); got != 0 {
		t.Errorf("score = %d, want 0", got)
	}
}

func TestSafetyScoreDeterministicAndOrderIndependent(t *testing.T) {
	messages := []*models.Message{
		{ModerationStatus: models.ModerationFlagged},
		{ModerationStatus: models.ModerationSafe},
		{ModerationStatus: models.ModerationBlocked},
		{ModerationStatus: models.ModerationFlagged},
	}
	alerts := []*models.Alert{
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityLow},
	}

	first := SafetyScore(messages, alerts)
	for i := 0; i < 10; i++ {
		if got := SafetyScore(messages, alerts); got != first {
			t.Fatalf("recompute not deterministic: %d then %d", first, got)
		}
	}

	reversedMessages := []*models.Message{messages[3], messages[2], messages[1], messages[0]}
	reversedAlerts := []*models.Alert{alerts[1], alerts[0]}
	if got := SafetyScore(reversedMessages, reversedAlerts); got != first {
		t.Errorf("score depends on input order: %d vs %d", got, first)
	}
}
