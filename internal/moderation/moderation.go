package moderation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"safeguard/internal/models"
)

// Late-night window: hour >= 23 or hour <= 5.
func isLateNight(hour int) bool {
	return hour >= 23 || hour <= 5
}

// Analyze scores a message against the pattern tiers and returns the
// moderation verdict. History is the last 10 messages of the same
// conversation, most recent first; only their recorded severity scores
// are consulted.
//
// Tier order is critical, high, medium, but the winning candidate is
// whichever adjusted score is numerically largest: a later match only
// displaces the running winner when its score strictly exceeds it, and
// a medium-tier match can only win while the running max is below 50.
func Analyze(content string, child *models.Child, mctx models.MessageContext, history []*models.Message) models.ModerationResult {
	hour := mctx.Timestamp.Hour()
	lateNight := isLateNight(hour)

	historyHot := false
	for _, m := range history {
		if m.SeverityScore != nil && *m.SeverityScore > 50 {
			historyHot = true
			break
		}
	}

	maxScore := 0
	var categories []string
	action := models.ActionAllow
	reasoning := "No concerning content detected"

	for _, r := range criticalRules {
		if !r.re.MatchString(content) {
			continue
		}
		score := r.baseScore
		if lateNight {
			score += 10
		}
		if historyHot {
			score += 5
		}
		if score > maxScore {
			maxScore = score
			categories = []string{r.category}
			if score > 80 {
				action = models.ActionBlock
			} else {
				action = models.ActionFlag
			}
			reasoning = fmt.Sprintf("Detected %s indicators with %d%% confidence", categoryLabel(r.category), score)
		}
	}

	for _, r := range highRules {
		if !r.re.MatchString(content) {
			continue
		}
		score := r.baseScore
		if lateNight {
			score += 5
		}
		if score > maxScore {
			maxScore = score
			categories = []string{r.category}
			action = models.ActionFlag
			reasoning = fmt.Sprintf("Detected %s patterns with %d%% confidence", categoryLabel(r.category), score)
		}
	}

	for _, r := range mediumRules {
		if !r.re.MatchString(content) {
			continue
		}
		if r.baseScore > maxScore && maxScore < 50 {
			maxScore = r.baseScore
			categories = []string{r.category}
			action = models.ActionAllow
			reasoning = fmt.Sprintf("Minor %s detected", categoryLabel(r.category))
		}
	}

	// Young children get amplified scores once anything meaningful matched.
	if child.Age(time.Now()) < 13 && maxScore > 30 {
		maxScore += 10
		reasoning += " (Elevated due to child's young age)"
	}

	if maxScore > 100 {
		maxScore = 100
	}

	return models.ModerationResult{
		DecisionID:    newDecisionID(),
		Action:        action,
		SeverityScore: maxScore,
		Categories:    categories,
		Confidence:    float64(maxScore) / 100,
		Reasoning:     reasoning,
	}
}

// StatusForAction maps a moderation action onto the message's terminal
// moderation status.
func StatusForAction(action string) string {
	switch action {
	case models.ActionBlock:
		return models.ModerationBlocked
	case models.ActionFlag:
		return models.ModerationFlagged
	default:
		return models.ModerationSafe
	}
}

func categoryLabel(category string) string {
	return strings.ReplaceAll(category, "_", " ")
}

// newDecisionID returns an opaque token unique enough to dedupe logs.
func newDecisionID() string {
	return fmt.Sprintf("mod_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
