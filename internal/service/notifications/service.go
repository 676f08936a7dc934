package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/config"
	"github.com/mamadbah2/salonpos/internal/domain/models"
	client "github.com/mamadbah2/salonpos/pkg/clients/whatsapp"
)

// ErrNoRecipient is returned when a notice has no phone number.
var ErrNoRecipient = errors.New("notice has no recipient phone")

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Notifier sends client-facing appointment messages.
type Notifier interface {
	NotifyAppointment(ctx context.Context, kind models.NotificationKind, notice models.AppointmentNotice) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg    config.WhatsAppConfig
	salon  config.SalonConfig
	loc    *time.Location
	client client.Client
	logger *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, salon config.SalonConfig, client client.Client, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:    cfg,
		salon:  salon,
		client: client,
		logger: logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	loc, err := salon.Location()
	if err != nil {
		loc = time.UTC
	}
	svc.loc = loc
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook records delivery receipts and answers confirmation replies.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, st := range change.Value.Statuses {
				s.logger.Info("message status",
					zap.String("message_id", st.ID),
					zap.String("status", st.Status),
					zap.String("recipient", st.RecipientID))
			}
			for _, e := range change.Value.Errors {
				s.logger.Warn("webhook reported error", zap.Int("code", e.Code), zap.String("title", e.Title), zap.String("message", e.Message))
			}
			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	text := strings.TrimSpace(extractMessageText(msg))
	if text == "" {
		s.logger.Debug("ignoring non-text message", zap.String("type", msg.Type), zap.String("from", msg.From))
		return nil
	}

	if !isConfirmation(text) {
		s.logger.Info("inbound message", zap.String("from", msg.From), zap.String("text", text))
		return nil
	}

	s.logger.Info("client confirmed attendance", zap.String("from", msg.From))

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:   msg.From,
		Body: fmt.Sprintf("Thank you for confirming! We look forward to seeing you at %s.", s.salon.Name),
	})
	return err
}

// SendOutbound lets staff push a manual message.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	return err
}

// NotifyAppointment renders and sends an appointment message.
func (s *MetaWhatsAppService) NotifyAppointment(ctx context.Context, kind models.NotificationKind, notice models.AppointmentNotice) error {
	if strings.TrimSpace(notice.Phone) == "" {
		return ErrNoRecipient
	}

	body, err := s.Render(kind, notice)
	if err != nil {
		return err
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{To: notice.Phone, Body: body})
	if err != nil {
		return fmt.Errorf("send %s notice for %s: %w", kind, notice.AppointmentID, err)
	}

	s.logger.Info("appointment notice sent",
		zap.String("kind", string(kind)),
		zap.String("appointment_id", notice.AppointmentID),
		zap.String("message_id", resp.MessageID()))
	return nil
}

func isConfirmation(text string) bool {
	switch strings.ToUpper(strings.Trim(text, " .!")) {
	case "YES", "Y", "CONFIRM", "CONFIRMED":
		return true
	}
	return false
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}

	if msg.Interactive != nil && msg.Interactive.ButtonReply != nil {
		return msg.Interactive.ButtonReply.ID
	}

	return ""
}
