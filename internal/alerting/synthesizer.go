package alerting

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"safeguard/internal/models"
	"safeguard/internal/moderation"
	"safeguard/internal/notifier"
	"safeguard/internal/repository"
)

// alertThreshold is the minimum severity score that produces an alert.
const alertThreshold = 40

// contextWindow is how many recent same-conversation messages are
// snapshotted into an alert.
const contextWindow = 5

// contextContentLimit caps the snapshotted content length, in runes.
const contextContentLimit = 200

// Synthesizer turns moderation verdicts into persisted alerts.
type Synthesizer struct {
	messageRepo repository.MessageRepository
	alertRepo   repository.AlertRepository
	dispatcher  *notifier.Dispatcher
	logger      *zap.Logger
}

func NewSynthesizer(messageRepo repository.MessageRepository, alertRepo repository.AlertRepository, dispatcher *notifier.Dispatcher, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		messageRepo: messageRepo,
		alertRepo:   alertRepo,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// SeverityForScore maps a severity score onto an alert severity bucket.
// Scores below the alert threshold never reach the synthesizer, so "low"
// is never assigned by this path.
func SeverityForScore(score int) string {
	switch {
	case score >= 80:
		return models.SeverityCritical
	case score >= 60:
		return models.SeverityHigh
	case score >= alertThreshold:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// MaybeCreateAlert creates an alert for the message when the verdict's
// severity score reaches the threshold, sets the message's alert
// back-reference and hands a notification to the dispatcher. Returns
// nil, nil when the score is below the threshold.
func (s *Synthesizer) MaybeCreateAlert(message *models.Message, child *models.Child, result models.ModerationResult) (*models.Alert, error) {
	if result.SeverityScore < alertThreshold {
		return nil, nil
	}

	severity := SeverityForScore(result.SeverityScore)

	category := moderation.CategoryInappropriateLanguage
	if len(result.Categories) > 0 {
		category = result.Categories[0]
	}

	snapshot, err := s.snapshotConversation(message.ConversationID)
	if err != nil {
		// The alert is still worth raising without context.
		s.logger.Warn("Failed to snapshot conversation context",
			zap.String("conversation_id", message.ConversationID), zap.Error(err))
		snapshot = "[]"
	}

	title, description, action := generateContent(category, message, child)

	alert := &models.Alert{
		FamilyID:        child.FamilyID,
		ChildID:         child.ID,
		Severity:        severity,
		Category:        category,
		Title:           title,
		Description:     description,
		SuggestedAction: action,
		ContextMessages: snapshot,
		AIReasoning:     result.Reasoning,
		Status:          models.AlertStatusNew,
	}

	if err := s.alertRepo.CreateAlert(alert); err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	if err := s.messageRepo.MarkAlertGenerated(message.ID, alert.ID); err != nil {
		return nil, fmt.Errorf("failed to link alert to message: %w", err)
	}
	message.IsAlertGenerated = true
	message.AlertID = &alert.ID

	s.dispatcher.Enqueue(notifier.Notification{
		AlertID:         alert.ID,
		FamilyID:        alert.FamilyID,
		ChildName:       child.DisplayName,
		Severity:        alert.Severity,
		Title:           alert.Title,
		SuggestedAction: alert.SuggestedAction,
	})

	s.logger.Info("Alert created",
		zap.String("alert_id", alert.ID),
		zap.String("child_id", child.ID),
		zap.String("severity", alert.Severity),
		zap.String("category", alert.Category))

	return alert, nil
}

// snapshotConversation captures up to 5 of the most recent messages in
// the conversation as a JSON blob. The snapshot is immutable: it is
// attached at creation time and never re-fetched.
func (s *Synthesizer) snapshotConversation(conversationID string) (string, error) {
	recent, err := s.messageRepo.GetRecentByConversation(conversationID, contextWindow)
	if err != nil {
		return "", err
	}

	snapshot := make([]models.ContextMessage, 0, len(recent))
	for _, m := range recent {
		snapshot = append(snapshot, models.ContextMessage{
			Content:    truncate(m.Content, contextContentLimit),
			SenderName: m.SenderName,
			SentAt:     m.SentAt,
		})
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
