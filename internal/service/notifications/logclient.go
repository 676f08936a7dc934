package notifications

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	client "github.com/mamadbah2/salonpos/pkg/clients/whatsapp"
)

// LogClient stands in for the WhatsApp API when messaging is disabled.
type LogClient struct {
	logger *zap.Logger
}

// NewLogClient returns a client that only logs outgoing messages.
func NewLogClient(logger *zap.Logger) *LogClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogClient{logger: logger}
}

// SendTextMessage logs the message and returns a synthetic id.
func (c *LogClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	id := "local." + uuid.NewString()
	c.logger.Info("whatsapp disabled, message not sent",
		zap.String("to", req.To),
		zap.Int("length", len(req.Body)),
		zap.String("message_id", id))

	resp := &client.SendTextMessageResponse{}
	resp.Messages = append(resp.Messages, struct {
		ID string `json:"id"`
	}{ID: id})
	return resp, nil
}
