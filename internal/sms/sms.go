// Package sms is the outbound text-message collaborator. Production sends
// through Twilio; every other environment logs the message instead.
package sms

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// LoggerSender writes messages to the structured logger instead of sending
// them. Used outside production.
type LoggerSender struct {
	logger *slog.Logger
}

// NewLoggerSender constructs the logging sender.
func NewLoggerSender(logger *slog.Logger) *LoggerSender {
	return &LoggerSender{logger: logger}
}

// Send logs the message.
func (s *LoggerSender) Send(_ context.Context, to, body string) error {
	if s == nil || s.logger == nil {
		return nil
	}
	s.logger.Info("sms", "to", to, "body", body)
	return nil
}

// TwilioSender delivers messages through the Twilio messaging API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender constructs the production sender.
func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

// Send dispatches the message via Twilio.
func (s *TwilioSender) Send(_ context.Context, to, body string) error {
	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)
	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send sms: %w", err)
	}
	return nil
}
