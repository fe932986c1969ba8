package pipeline

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"safeguard/internal/alerting"
	"safeguard/internal/moderation"
	"safeguard/internal/models"
	"safeguard/internal/notifier"
)

type fakeChildRepo struct {
	children map[string]*models.Child
	scores   map[string]int
}

func newFakeChildRepo(children ...*models.Child) *fakeChildRepo {
	r := &fakeChildRepo{children: make(map[string]*models.Child), scores: make(map[string]int)}
	for _, c := range children {
		r.children[c.ID] = c
	}
	return r
}

func (r *fakeChildRepo) CreateChild(child *models.Child) error {
	r.children[child.ID] = child
	return nil
}

func (r *fakeChildRepo) GetChildByID(id string) (*models.Child, error) {
	child, ok := r.children[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return child, nil
}

func (r *fakeChildRepo) GetChildrenByFamily(familyID string) ([]*models.Child, error) {
	return nil, nil
}

func (r *fakeChildRepo) UpdateSafetyScore(childID string, score int) error {
	r.scores[childID] = score
	return nil
}

// fakeMessageRepo keeps messages newest-first, matching the store's
// recency ordering.
type fakeMessageRepo struct {
	messages []*models.Message
	nextID   int
}

func (r *fakeMessageRepo) CreateMessage(msg *models.Message) error {
	r.nextID++
	msg.ID = fmt.Sprintf("msg-%d", r.nextID)
	msg.ReceivedAt = time.Now()
	r.messages = append([]*models.Message{msg}, r.messages...)
	return nil
}

func (r *fakeMessageRepo) GetMessageByID(id string) (*models.Message, error) {
	for _, m := range r.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeMessageRepo) UpdateModeration(msg *models.Message) error { return nil }

func (r *fakeMessageRepo) MarkAlertGenerated(messageID, alertID string) error {
	for _, m := range r.messages {
		if m.ID == messageID && m.AlertID == nil {
			m.IsAlertGenerated = true
			m.AlertID = &alertID
		}
	}
	return nil
}

func (r *fakeMessageRepo) GetRecentByConversation(conversationID string, limit int) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) GetRecentByChild(childID string, limit int) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range r.messages {
		if m.ChildID == childID {
			out = append(out, m)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakeAlertRepo struct {
	alerts []*models.Alert
}

func (r *fakeAlertRepo) CreateAlert(alert *models.Alert) error {
	alert.ID = fmt.Sprintf("alert-%d", len(r.alerts)+1)
	alert.CreatedAt = time.Now()
	r.alerts = append([]*models.Alert{alert}, r.alerts...)
	return nil
}

func (r *fakeAlertRepo) GetAlertByID(id string) (*models.Alert, error) { return nil, sql.ErrNoRows }

func (r *fakeAlertRepo) GetAlertsByFamily(familyID string) ([]*models.Alert, error) {
	return r.alerts, nil
}

func (r *fakeAlertRepo) GetAlertsByStatus(familyID, status string) ([]*models.Alert, error) {
	return nil, nil
}

func (r *fakeAlertRepo) GetRecentByChild(childID string, limit int) ([]*models.Alert, error) {
	var out []*models.Alert
	for _, a := range r.alerts {
		if a.ChildID == childID {
			out = append(out, a)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) UpdateAlertStatus(id, status, acknowledgedBy string, parentNotes *string) error {
	return nil
}

type testEnv struct {
	pipeline    *Pipeline
	childRepo   *fakeChildRepo
	messageRepo *fakeMessageRepo
	alertRepo   *fakeAlertRepo
}

func newTestEnv(children ...*models.Child) *testEnv {
	childRepo := newFakeChildRepo(children...)
	messageRepo := &fakeMessageRepo{}
	alertRepo := &fakeAlertRepo{}

	log := logrus.New()
	dispatcher := notifier.NewDispatcher(notifier.NewLogSender(log), 8, log)
	synthesizer := alerting.NewSynthesizer(messageRepo, alertRepo, dispatcher, zap.NewNop())

	return &testEnv{
		pipeline:    NewPipeline(childRepo, messageRepo, alertRepo, synthesizer, zap.NewNop()),
		childRepo:   childRepo,
		messageRepo: messageRepo,
		alertRepo:   alertRepo,
	}
}

func childAged(years int) *models.Child {
	birth := time.Now().AddDate(-years, -6, 0)
	return &models.Child{
		ID:          "child-1",
		FamilyID:    "family-1",
		DisplayName: "Emma",
		BirthDate:   &birth,
		SafetyScore: 100,
	}
}

func input(content string, hour int) Input {
	return Input{
		ChildID:        "child-1",
		Content:        content,
		ContentType:    "text",
		SourceApp:      "WhatsApp",
		SenderID:       "sender-1",
		SenderName:     "Alex",
		SenderType:     "contact",
		ConversationID: "conv-1",
		SentAt:         time.Date(2025, 3, 10, hour, 30, 0, 0, time.UTC),
	}
}

func TestProcessChildNotFound(t *testing.T) {
	env := newTestEnv() // no children

	_, err := env.pipeline.Process(input("hello", 12))
	if !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("err = %v, want ErrChildNotFound", err)
	}
	// Aborts before any scoring or persistence.
	if len(env.messageRepo.messages) != 0 {
		t.Errorf("message was created for an unknown child")
	}
}

func TestProcessCriticalMessage(t *testing.T) {
	// 12-year-old, 2am, no history: base 85 +10 late night +10 age, clamped.
	env := newTestEnv(childAged(12))

	result, err := env.pipeline.Process(input("I want to kill myself", 2))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if result.Moderation.SeverityScore != 100 {
		t.Errorf("severity score = %d, want 100", result.Moderation.SeverityScore)
	}
	if result.Moderation.Action != models.ActionBlock {
		t.Errorf("action = %q, want %q", result.Moderation.Action, models.ActionBlock)
	}
	if result.Message.ModerationStatus != models.ModerationBlocked {
		t.Errorf("moderation status = %q, want %q", result.Message.ModerationStatus, models.ModerationBlocked)
	}
	if result.Message.SeverityScore == nil || *result.Message.SeverityScore != 100 {
		t.Errorf("message severity score = %v, want 100", result.Message.SeverityScore)
	}
	if result.Message.DecisionID == nil || *result.Message.DecisionID == "" {
		t.Error("message decision id not set")
	}

	if result.Alert == nil {
		t.Fatal("no alert created")
	}
	if result.Alert.Severity != models.SeverityCritical {
		t.Errorf("alert severity = %q, want %q", result.Alert.Severity, models.SeverityCritical)
	}
	if result.Alert.Category != moderation.CategorySuicidalIdeation {
		t.Errorf("alert category = %q, want %q", result.Alert.Category, moderation.CategorySuicidalIdeation)
	}
	if result.Message.AlertID == nil || *result.Message.AlertID != result.Alert.ID {
		t.Error("message alert back-reference not set")
	}

	// Blocked messages deduct nothing per-message; the critical alert
	// deducts 15.
	if result.SafetyScore != 85 {
		t.Errorf("safety score = %d, want 85", result.SafetyScore)
	}
	if env.childRepo.scores["child-1"] != 85 {
		t.Errorf("persisted safety score = %d, want 85", env.childRepo.scores["child-1"])
	}
}

func TestProcessMediumAllowStillAlerts(t *testing.T) {
	// Medium tier at noon: action stays allow but the score reaches the
	// alert threshold, so a medium alert is still raised.
	env := newTestEnv(childAged(14))

	result, err := env.pipeline.Process(input("you're such an idiot", 12))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if result.Moderation.Action != models.ActionAllow {
		t.Errorf("action = %q, want %q", result.Moderation.Action, models.ActionAllow)
	}
	if result.Message.ModerationStatus != models.ModerationSafe {
		t.Errorf("moderation status = %q, want %q", result.Message.ModerationStatus, models.ModerationSafe)
	}
	if result.Alert == nil {
		t.Fatal("no alert created at score 40")
	}
	if result.Alert.Severity != models.SeverityMedium {
		t.Errorf("alert severity = %q, want %q", result.Alert.Severity, models.SeverityMedium)
	}

	// Safe message deducts nothing; one medium alert deducts 5.
	if result.SafetyScore != 95 {
		t.Errorf("safety score = %d, want 95", result.SafetyScore)
	}
}

func TestProcessFlaggedMessage(t *testing.T) {
	env := newTestEnv(childAged(14))

	result, err := env.pipeline.Process(input("I hate you", 12))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if result.Moderation.SeverityScore != 70 {
		t.Errorf("severity score = %d, want 70", result.Moderation.SeverityScore)
	}
	if result.Message.ModerationStatus != models.ModerationFlagged {
		t.Errorf("moderation status = %q, want %q", result.Message.ModerationStatus, models.ModerationFlagged)
	}
	if result.Alert == nil || result.Alert.Severity != models.SeverityHigh {
		t.Fatalf("alert = %+v, want high severity alert", result.Alert)
	}

	// One flagged message (-2) plus one high alert (-10).
	if result.SafetyScore != 88 {
		t.Errorf("safety score = %d, want 88", result.SafetyScore)
	}
}

func TestProcessConversationHistoryBonus(t *testing.T) {
	env := newTestEnv(childAged(14))

	// Seed the conversation with an already-scored hot message.
	hot := 60
	seed := &models.Message{
		ChildID:          "child-1",
		ConversationID:   "conv-1",
		Content:          "earlier message",
		SenderName:       "Alex",
		SentAt:           time.Now().Add(-time.Hour),
		ModerationStatus: models.ModerationFlagged,
		SeverityScore:    &hot,
	}
	if err := env.messageRepo.CreateMessage(seed); err != nil {
		t.Fatal(err)
	}

	result, err := env.pipeline.Process(input("I want to kill myself", 12))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	// Base 85 plus the +5 history bonus.
	if result.Moderation.SeverityScore != 90 {
		t.Errorf("severity score = %d, want 90", result.Moderation.SeverityScore)
	}
}

func TestProcessSafetyScoreAccumulates(t *testing.T) {
	env := newTestEnv(childAged(14))

	for i := 0; i < 3; i++ {
		if _, err := env.pipeline.Process(input("I hate you", 12)); err != nil {
			t.Fatalf("Process returned error: %v", err)
		}
	}

	// Three flagged messages (-6) and three high alerts (-30).
	if got := env.childRepo.scores["child-1"]; got != 64 {
		t.Errorf("safety score after three flagged messages = %d, want 64", got)
	}
}

func TestProcessDefaultsSentAtToNow(t *testing.T) {
	env := newTestEnv(childAged(14))

	in := input("hello there", 12)
	in.SentAt = time.Time{}

	result, err := env.pipeline.Process(in)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if result.Message.SentAt.IsZero() {
		t.Error("zero sent_at was not defaulted to the current time")
	}
}
