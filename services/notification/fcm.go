package notification

import (
	"context"
	"fmt"

	"eclinic/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// MessagingClient is the part of *messaging.Client the sender uses.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender sends pushes through Firebase Cloud Messaging.
type FCMSender struct {
	client MessagingClient
	logger *zap.Logger
}

func NewFCMSender(client MessagingClient, logger *zap.Logger) *FCMSender {
	return &FCMSender{client: client, logger: logger}
}

func (s *FCMSender) Send(ctx context.Context, req models.PushRequest) (string, error) {
	if err := Validate(req); err != nil {
		s.logger.Warn("push rejected", zap.Error(err))
		return "", err
	}

	response, err := s.client.Send(ctx, BuildMessage(req))
	if err != nil {
		s.logger.Error("push failed",
			zap.String("chatId", req.ChatID),
			zap.String("senderId", req.SenderID),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to send FCM message: %w", err)
	}

	s.logger.Debug("push sent", zap.String("chatId", req.ChatID), zap.String("response", response))
	return response, nil
}

// BuildMessage maps a push request onto an FCM message carrying chatId and senderId as data.
func BuildMessage(req models.PushRequest) *messaging.Message {
	return &messaging.Message{
		Token: req.Token,
		Notification: &messaging.Notification{
			Title: req.Title,
			Body:  req.Body,
		},
		Data: map[string]string{
			"chatId":   req.ChatID,
			"senderId": req.SenderID,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
}

// DisabledSender validates requests but never delivers them.
type DisabledSender struct {
	logger *zap.Logger
}

func NewDisabledSender(logger *zap.Logger) *DisabledSender {
	return &DisabledSender{logger: logger}
}

func (s *DisabledSender) Send(_ context.Context, req models.PushRequest) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}
	s.logger.Debug("push skipped, delivery disabled", zap.String("chatId", req.ChatID))
	return "", ErrPushDisabled
}
