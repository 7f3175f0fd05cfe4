// internal/notify/notifier.go

// Package notify sends best-effort notifications for portal events: email to
// the admin notification list when an application arrives, and an SNS message
// that tells open admin consoles to refresh the unprocessed badge. Failures
// here never roll back the primary write.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"office-portal/internal/common/config"
	"office-portal/internal/common/errors"
	"office-portal/internal/common/logger"
	"office-portal/internal/common/metrics"
	"office-portal/internal/models"
)

// EmailSender matches the SES client surface the notifier uses.
type EmailSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// TopicPublisher matches the SNS client surface the notifier uses.
type TopicPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Notifier struct {
	email EmailSender
	topic TopicPublisher
	cfg   config.AWSConfig
	log   logger.Logger
}

func NewNotifier(email EmailSender, topic TopicPublisher, cfg config.AWSConfig, log logger.Logger) *Notifier {
	return &Notifier{
		email: email,
		topic: topic,
		cfg:   cfg,
		log:   log,
	}
}

// ApplicationSubmitted emails every recipient on the notification list about a
// new application. One failing recipient does not stop the rest; the combined
// failure, if any, comes back as a downstream error for the caller to surface
// as a warning.
func (n *Notifier) ApplicationSubmitted(ctx context.Context, app models.Application, recipients []string) error {
	if !n.cfg.SES.Enabled || n.email == nil || len(recipients) == 0 {
		return nil
	}

	subject := fmt.Sprintf("[Portal] New %s: %s", typeLabel(app.Type), app.Title)
	body := fmt.Sprintf("Applicant: %s\nSubmitted: %s\n\nOpen the admin console to process this application.",
		app.ApplicantName, app.SubmittedAt)

	var failed []string
	for _, to := range recipients {
		input := &ses.SendEmailInput{
			Source:      awssdk.String(n.cfg.SES.FromEmail),
			Destination: &sestypes.Destination{ToAddresses: []string{to}},
			Message: &sestypes.Message{
				Subject: &sestypes.Content{Data: awssdk.String(subject)},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: awssdk.String(body)},
				},
			},
		}
		if _, err := n.email.SendEmail(ctx, input); err != nil {
			metrics.NotificationsSent.WithLabelValues("email", "failure").Inc()
			n.log.WithError(err).WithFields(map[string]interface{}{
				"recipient":      to,
				"application_id": app.ID,
			}).Warn("application notification email failed", nil)
			failed = append(failed, to)
			continue
		}
		metrics.NotificationsSent.WithLabelValues("email", "success").Inc()
	}

	if len(failed) > 0 {
		return errors.NewDownstream(errors.ErrCodeNotificationSendFailed,
			fmt.Sprintf("notification email failed for %d of %d recipients", len(failed), len(recipients)), nil)
	}
	return nil
}

// badgeRefreshEvent is the payload admin consoles subscribe to.
type badgeRefreshEvent struct {
	Event            string `json:"event"`
	UnprocessedCount int    `json:"unprocessedCount"`
}

// PublishBadgeRefresh tells subscribed consoles the unprocessed count changed.
func (n *Notifier) PublishBadgeRefresh(ctx context.Context, unprocessedCount int) error {
	if !n.cfg.SNS.Enabled || n.topic == nil {
		return nil
	}

	payload, err := json.Marshal(badgeRefreshEvent{
		Event:            "applications.refresh",
		UnprocessedCount: unprocessedCount,
	})
	if err != nil {
		return fmt.Errorf("marshal badge refresh event: %w", err)
	}

	_, err = n.topic.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(n.cfg.SNS.RefreshTopicARN),
		Message:  awssdk.String(string(payload)),
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("sns", "failure").Inc()
		return errors.NewDownstream(errors.ErrCodeNotificationSendFailed,
			"badge refresh publish failed", err)
	}
	metrics.NotificationsSent.WithLabelValues("sns", "success").Inc()
	return nil
}

func typeLabel(t models.ApplicationType) string {
	switch t {
	case models.TypeFacilityReservation:
		return "facility reservation"
	case models.TypeCustomerRegistration:
		return "customer registration"
	case models.TypeCustomerChange:
		return "customer change request"
	default:
		return string(t)
	}
}
