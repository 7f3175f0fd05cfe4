// internal/notify/notifier_test.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"office-portal/internal/common/config"
	"office-portal/internal/common/errors"
	"office-portal/internal/common/logger"
	"office-portal/internal/models"
)

type fakeSES struct {
	inputs  []*ses.SendEmailInput
	failFor map[string]bool
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if len(params.Destination.ToAddresses) == 1 && f.failFor[params.Destination.ToAddresses[0]] {
		return nil, fmt.Errorf("ses: mailbox unavailable")
	}
	return &ses.SendEmailOutput{}, nil
}

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	return &sns.PublishOutput{}, f.err
}

func awsConfig() config.AWSConfig {
	return config.AWSConfig{
		Region: "ap-northeast-1",
		SES:    config.SESConfig{Enabled: true, FromEmail: "portal@example.com"},
		SNS:    config.SNSConfig{Enabled: true, RefreshTopicARN: "arn:aws:sns:ap-northeast-1:000000000000:portal-refresh"},
	}
}

func sampleApplication() models.Application {
	return models.Application{
		ID:            "app-1",
		Type:          models.TypeFacilityReservation,
		ApplicantName: "Yamada",
		Title:         "Meeting room B",
		SubmittedAt:   "2025-10-01T12:00:00Z",
	}
}

func TestNotifier_ApplicationSubmitted_SendsToEveryRecipient(t *testing.T) {
	sesClient := &fakeSES{}
	n := NewNotifier(sesClient, nil, awsConfig(), logger.NewNoOpLogger())

	err := n.ApplicationSubmitted(context.Background(), sampleApplication(),
		[]string{"a@example.com", "b@example.com"})

	require.NoError(t, err)
	require.Len(t, sesClient.inputs, 2)
	assert.Equal(t, "portal@example.com", *sesClient.inputs[0].Source)
	assert.Contains(t, *sesClient.inputs[0].Message.Subject.Data, "facility reservation")
	assert.Contains(t, *sesClient.inputs[0].Message.Body.Text.Data, "Yamada")
}

func TestNotifier_ApplicationSubmitted_PartialFailureContinues(t *testing.T) {
	sesClient := &fakeSES{failFor: map[string]bool{"a@example.com": true}}
	n := NewNotifier(sesClient, nil, awsConfig(), logger.NewNoOpLogger())

	err := n.ApplicationSubmitted(context.Background(), sampleApplication(),
		[]string{"a@example.com", "b@example.com"})

	// Both sends attempted despite the first failing.
	assert.Len(t, sesClient.inputs, 2)

	require.Error(t, err)
	stdErr, ok := errors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, errors.KindDownstream, stdErr.Kind)
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
}

func TestNotifier_ApplicationSubmitted_DisabledIsNoOp(t *testing.T) {
	sesClient := &fakeSES{}
	cfg := awsConfig()
	cfg.SES.Enabled = false
	n := NewNotifier(sesClient, nil, cfg, logger.NewNoOpLogger())

	err := n.ApplicationSubmitted(context.Background(), sampleApplication(), []string{"a@example.com"})

	assert.NoError(t, err)
	assert.Empty(t, sesClient.inputs)
}

func TestNotifier_PublishBadgeRefresh(t *testing.T) {
	snsClient := &fakeSNS{}
	n := NewNotifier(nil, snsClient, awsConfig(), logger.NewNoOpLogger())

	err := n.PublishBadgeRefresh(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, snsClient.inputs, 1)
	assert.Equal(t, "arn:aws:sns:ap-northeast-1:000000000000:portal-refresh", *snsClient.inputs[0].TopicArn)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(*snsClient.inputs[0].Message), &event))
	assert.Equal(t, "applications.refresh", event["event"])
	assert.Equal(t, float64(3), event["unprocessedCount"])
}

func TestNotifier_PublishBadgeRefresh_FailureIsDownstream(t *testing.T) {
	snsClient := &fakeSNS{err: fmt.Errorf("sns: throttled")}
	n := NewNotifier(nil, snsClient, awsConfig(), logger.NewNoOpLogger())

	err := n.PublishBadgeRefresh(context.Background(), 1)

	require.Error(t, err)
	stdErr, ok := errors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, errors.KindDownstream, stdErr.Kind)
}
