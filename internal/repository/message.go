package repository

import (
	"safeguard/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type MessageRepository interface {
	CreateMessage(msg *models.Message) error
	GetMessageByID(id string) (*models.Message, error)
	UpdateModeration(msg *models.Message) error
	MarkAlertGenerated(messageID, alertID string) error
	GetRecentByConversation(conversationID string, limit int) ([]*models.Message, error)
	GetRecentByChild(childID string, limit int) ([]*models.Message, error)
}

type messageRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewMessageRepository(db *sqlx.DB, logger *zap.Logger) MessageRepository {
	return &messageRepository{db: db, logger: logger}
}

const messageColumns = `id, child_id, content, content_type, source_app, sender_id, sender_name,
	sender_type, conversation_id, sent_at, received_at, moderation_status, decision_id,
	severity_score, flagged_categories, is_alert_generated, alert_id`

func (r *messageRepository) CreateMessage(msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.ModerationStatus == "" {
		msg.ModerationStatus = models.ModerationPending
	}
	query := `INSERT INTO messages (id, child_id, content, content_type, source_app, sender_id,
	          sender_name, sender_type, conversation_id, sent_at, moderation_status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING received_at`
	return r.db.QueryRowx(query, msg.ID, msg.ChildID, msg.Content, msg.ContentType, msg.SourceApp,
		msg.SenderID, msg.SenderName, msg.SenderType, msg.ConversationID, msg.SentAt,
		msg.ModerationStatus).Scan(&msg.ReceivedAt)
}

func (r *messageRepository) GetMessageByID(id string) (*models.Message, error) {
	var msg models.Message
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	err := r.db.Get(&msg, query, id)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// UpdateModeration attaches the moderation verdict to a message. This is
// the single post-creation mutation a message record receives.
func (r *messageRepository) UpdateModeration(msg *models.Message) error {
	query := `UPDATE messages
	          SET moderation_status = $2, decision_id = $3, severity_score = $4, flagged_categories = $5
	          WHERE id = $1`
	_, err := r.db.Exec(query, msg.ID, msg.ModerationStatus, msg.DecisionID, msg.SeverityScore,
		pq.Array([]string(msg.FlaggedCategories)))
	return err
}

// MarkAlertGenerated sets the message's alert back-reference. The alert_id
// column is only written from NULL, so the reference is set at most once.
func (r *messageRepository) MarkAlertGenerated(messageID, alertID string) error {
	query := `UPDATE messages SET is_alert_generated = TRUE, alert_id = $2
	          WHERE id = $1 AND alert_id IS NULL`
	_, err := r.db.Exec(query, messageID, alertID)
	return err
}

func (r *messageRepository) GetRecentByConversation(conversationID string, limit int) ([]*models.Message, error) {
	var messages []*models.Message
	query := `SELECT ` + messageColumns + ` FROM messages
	          WHERE conversation_id = $1 ORDER BY received_at DESC LIMIT $2`
	err := r.db.Select(&messages, query, conversationID, limit)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) GetRecentByChild(childID string, limit int) ([]*models.Message, error) {
	var messages []*models.Message
	query := `SELECT ` + messageColumns + ` FROM messages
	          WHERE child_id = $1 ORDER BY received_at DESC LIMIT $2`
	err := r.db.Select(&messages, query, childID, limit)
	if err != nil {
		return nil, err
	}
	return messages, nil
}
