package pipeline

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"safeguard/internal/alerting"
	"safeguard/internal/moderation"
	"safeguard/internal/models"
	"safeguard/internal/repository"
)

var ErrChildNotFound = errors.New("child not found")

// Window sizes for the safety score recomputation.
const (
	historyWindow      = 10
	safetyMessageLimit = 100
	safetyAlertLimit   = 20
)

// Pipeline runs the full moderation flow for one inbound message:
// persist, classify, attach the verdict, synthesize an alert when the
// score warrants one, and recompute the child's safety score. Each
// message is processed exactly once within a single synchronous call;
// there is no retry for any step.
type Pipeline struct {
	childRepo   repository.ChildRepository
	messageRepo repository.MessageRepository
	alertRepo   repository.AlertRepository
	synthesizer *alerting.Synthesizer
	logger      *zap.Logger
}

func NewPipeline(
	childRepo repository.ChildRepository,
	messageRepo repository.MessageRepository,
	alertRepo repository.AlertRepository,
	synthesizer *alerting.Synthesizer,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		childRepo:   childRepo,
		messageRepo: messageRepo,
		alertRepo:   alertRepo,
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// Input is one inbound message submission from a device agent.
type Input struct {
	ChildID        string
	Content        string
	ContentType    string
	SourceApp      string
	SenderID       string
	SenderName     string
	SenderType     string
	ConversationID string
	SentAt         time.Time
}

// Result is the outcome of processing one message. Alert is nil when the
// severity score stayed below the alert threshold.
type Result struct {
	Message     *models.Message         `json:"message"`
	Moderation  models.ModerationResult `json:"moderation"`
	Alert       *models.Alert           `json:"alert,omitempty"`
	SafetyScore int                     `json:"safety_score"`
}

// Process runs the moderation pipeline for a single inbound message.
// A missing child aborts before any scoring. If a later write fails the
// message may remain flagged but alert-less; that inconsistency is
// accepted and surfaced to the caller, never rolled back.
func (p *Pipeline) Process(input Input) (*Result, error) {
	child, err := p.childRepo.GetChildByID(input.ChildID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChildNotFound
		}
		return nil, fmt.Errorf("failed to look up child: %w", err)
	}

	sentAt := input.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	message := &models.Message{
		ChildID:          input.ChildID,
		Content:          input.Content,
		ContentType:      input.ContentType,
		SourceApp:        input.SourceApp,
		SenderID:         input.SenderID,
		SenderName:       input.SenderName,
		SenderType:       input.SenderType,
		ConversationID:   input.ConversationID,
		SentAt:           sentAt,
		ModerationStatus: models.ModerationPending,
	}
	if err := p.messageRepo.CreateMessage(message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	history, err := p.messageRepo.GetRecentByConversation(input.ConversationID, historyWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation history: %w", err)
	}

	result := moderation.Analyze(input.Content, child, models.MessageContext{
		ConversationID: input.ConversationID,
		SenderID:       input.SenderID,
		SenderName:     input.SenderName,
		SenderType:     input.SenderType,
		SourceApp:      input.SourceApp,
		Timestamp:      sentAt,
	}, history)

	message.ModerationStatus = moderation.StatusForAction(result.Action)
	message.DecisionID = &result.DecisionID
	message.SeverityScore = &result.SeverityScore
	message.FlaggedCategories = result.Categories
	if err := p.messageRepo.UpdateModeration(message); err != nil {
		return nil, fmt.Errorf("failed to update message moderation: %w", err)
	}

	p.logger.Info("Message moderated",
		zap.String("message_id", message.ID),
		zap.String("child_id", child.ID),
		zap.String("action", result.Action),
		zap.Int("severity_score", result.SeverityScore))

	alert, err := p.synthesizer.MaybeCreateAlert(message, child, result)
	if err != nil {
		return nil, err
	}

	safetyScore, err := p.recomputeSafetyScore(child.ID)
	if err != nil {
		return nil, err
	}

	return &Result{
		Message:     message,
		Moderation:  result,
		Alert:       alert,
		SafetyScore: safetyScore,
	}, nil
}

// recomputeSafetyScore fetches a fresh recent-activity window and writes
// the recomputed score back to the child record.
func (p *Pipeline) recomputeSafetyScore(childID string) (int, error) {
	recentMessages, err := p.messageRepo.GetRecentByChild(childID, safetyMessageLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch recent messages: %w", err)
	}
	recentAlerts, err := p.alertRepo.GetRecentByChild(childID, safetyAlertLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch recent alerts: %w", err)
	}

	score := moderation.SafetyScore(recentMessages, recentAlerts)
	if err := p.childRepo.UpdateSafetyScore(childID, score); err != nil {
		return 0, fmt.Errorf("failed to update safety score: %w", err)
	}
	return score, nil
}
