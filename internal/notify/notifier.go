package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"github.com/firmdesk/firmdesk/internal/domain"
	redisstore "github.com/firmdesk/firmdesk/internal/store/redis"
)

// Notification kinds.
const (
	KindTaskAssigned     = "task_assigned"
	KindAMLStatusChanged = "aml_status_changed"
	KindTaskStatusChange = "task_status_changed"
)

// Publisher pushes a payload onto a named channel. Satisfied by
// redisstore.PubSub.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// event is the wire shape published to subscribers.
type event struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	UserID    uuid.UUID `json:"user_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier persists in-app notifications and fans them out to live
// subscribers. An optional Slack incoming webhook mirrors every
// notification to a firm-wide channel.
type Notifier struct {
	repo            domain.NotificationRepository
	pubsub          Publisher
	slackWebhookURL string
}

// New creates a Notifier. pubsub may be nil (no live fan-out) and
// slackWebhookURL may be empty (no Slack mirror).
func New(repo domain.NotificationRepository, pubsub Publisher, slackWebhookURL string) *Notifier {
	return &Notifier{
		repo:            repo,
		pubsub:          pubsub,
		slackWebhookURL: slackWebhookURL,
	}
}

// Notify stores a notification for the user and publishes it on the user's
// channel. Persistence failure is returned; fan-out and Slack mirror
// failures are logged and swallowed so a flaky broker never fails the
// triggering request.
func (n *Notifier) Notify(ctx context.Context, tenantID, userID uuid.UUID, kind, message string) error {
	notif := &domain.Notification{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	if err := n.repo.Create(ctx, notif); err != nil {
		return fmt.Errorf("notify.Notifier.Notify: create: %w", err)
	}

	n.publish(ctx, notif)
	n.mirrorToSlack(message)

	return nil
}

// NotifyBestEffort is Notify for callers where notification delivery must
// never fail the surrounding operation.
func (n *Notifier) NotifyBestEffort(ctx context.Context, tenantID, userID uuid.UUID, kind, message string) {
	if err := n.Notify(ctx, tenantID, userID, kind, message); err != nil {
		log.Warn().Err(err).
			Str("kind", kind).
			Str("user_id", userID.String()).
			Msg("notification delivery failed")
	}
}

func (n *Notifier) publish(ctx context.Context, notif *domain.Notification) {
	if n.pubsub == nil {
		return
	}

	payload, err := json.Marshal(event{
		ID:        notif.ID,
		TenantID:  notif.TenantID,
		UserID:    notif.UserID,
		Kind:      notif.Kind,
		Message:   notif.Message,
		CreatedAt: notif.CreatedAt,
	})
	if err != nil {
		log.Warn().Err(err).Msg("notification event marshal failed")
		return
	}

	channel := redisstore.UserChannel(notif.TenantID, notif.UserID)
	if err := n.pubsub.Publish(ctx, channel, payload); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("notification publish failed")
	}
}

func (n *Notifier) mirrorToSlack(message string) {
	if n.slackWebhookURL == "" {
		return
	}

	// Fire and forget; webhook latency must not block the request path.
	go func() {
		err := slack.PostWebhook(n.slackWebhookURL, &slack.WebhookMessage{Text: message})
		if err != nil {
			log.Warn().Err(err).Msg("slack webhook mirror failed")
		}
	}()
}
