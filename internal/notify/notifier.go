// Package notify sends order notifications to the site owner.
package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	commonaws "somdev-backend/internal/common/aws"
	apperrors "somdev-backend/internal/common/errors"
	"somdev-backend/internal/common/logger"
)

// Notifier is called after an order interaction has been persisted.
// Implementations must not block the request path for long.
type Notifier interface {
	OrderReceived(ctx context.Context, userID, serviceID string, details map[string]interface{}) error
}

// Noop is used when email notifications are disabled.
type Noop struct{}

func (Noop) OrderReceived(context.Context, string, string, map[string]interface{}) error {
	return nil
}

// SESAPI is the slice of the SES client the notifier uses.
type SESAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SESNotifier emails the configured recipient on every order.
type SESNotifier struct {
	client    SESAPI
	fromEmail string
	toEmail   string
	logger    logger.Logger
}

func NewSESNotifier(client SESAPI, fromEmail, toEmail string, log logger.Logger) *SESNotifier {
	return &SESNotifier{client: client, fromEmail: fromEmail, toEmail: toEmail, logger: log}
}

// NewSESNotifierFromRegion builds a notifier with a real SES client.
func NewSESNotifierFromRegion(ctx context.Context, region, fromEmail, toEmail string, log logger.Logger) (*SESNotifier, error) {
	sesClient, err := commonaws.NewSESClient(ctx, region)
	if err != nil {
		return nil, err
	}
	return NewSESNotifier(sesClient, fromEmail, toEmail, log), nil
}

func (n *SESNotifier) OrderReceived(ctx context.Context, userID, serviceID string, details map[string]interface{}) error {
	subject := "New service order received"
	body := n.buildBody(userID, serviceID, details)

	input := &ses.SendEmailInput{
		Source: aws.String(n.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{n.toEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return apperrors.NewNotificationSendFailedError(err)
	}

	n.logger.Info("Order notification sent", map[string]interface{}{
		"user_id":    userID,
		"service_id": serviceID,
	})
	return nil
}

func (n *SESNotifier) buildBody(userID, serviceID string, details map[string]interface{}) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new order was placed.\n\nUser: %s\n", userID)
	if serviceID != "" {
		fmt.Fprintf(&b, "Service: %s\n", serviceID)
	}
	if len(details) > 0 {
		b.WriteString("\nDetails:\n")
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %v\n", k, details[k])
		}
	}
	return b.String()
}
