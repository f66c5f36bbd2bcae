// internal/workers/planning/deliver-package-proposals/handler.go
package deliverpackageproposals

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"event-package-workers/internal/common/camunda"
	"event-package-workers/internal/common/errors"
	"event-package-workers/internal/common/logger"
	"event-package-workers/internal/common/metrics"
	"event-package-workers/internal/common/observability"
	"event-package-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "deliver-package-proposals"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	sesClient SESService
	snsClient SNSService
	errors    *errors.ErrorHandler
	obs       *observability.Observability
	logger    logger.Logger
	now       func() time.Time
}

func NewHandler(config *Config, sesClient SESService, snsClient SNSService, obs *observability.Observability, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		sesClient: sesClient,
		snsClient: snsClient,
		errors:    errors.NewErrorHandler(scoped),
		obs:       obs,
		logger:    scoped,
		now:       time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	start := time.Now()
	timer := metrics.StartJob(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.process(ctx, job.Variables)
	if err == nil {
		err = camunda.CompleteJob(ctx, client, job, output)
	}

	status := "success"
	code := ""
	if err != nil {
		status = "failed"
		code = string(errors.ErrCodeInternal)
		if stdErr, ok := errors.AsStandardError(err); ok {
			code = string(stdErr.Code)
		}
	}
	timer.Done(code)
	h.obs.RecordJobProcessed(ctx, TaskType, status)
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), status)

	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
	}
}

func (h *Handler) process(ctx context.Context, variables string) (*Output, error) {
	result, err := inputSchema.ValidateJSON(variables)
	if err != nil {
		return nil, errors.NewInvalidInputSchemaError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewInvalidInputSchemaError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputSchemaError(fmt.Sprintf("parse input: %v", err))
	}
	return h.Execute(ctx, &input)
}

// Execute sends the proposals. Email is the primary channel and its
// failure fails the job; an SMS failure only clears smsSent.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	body, err := RenderEmail(input)
	if err != nil {
		return nil, errors.NewProposalRenderFailedError(err)
	}

	output := &Output{
		NotificationID: uuid.New().String(),
		SentAt:         h.now().UTC().Format(time.RFC3339),
		Deliveries:     make([]models.Delivery, 0, 2),
	}

	email := models.Delivery{Channel: models.ChannelEmail, Recipient: input.RecipientEmail, Status: models.StatusDisabled}
	if h.config.EmailEnabled {
		messageID, err := h.sendEmail(ctx, input.RecipientEmail, h.config.Subject, body)
		if err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"requestId": input.RequestID,
				"error":     err,
			})
			return nil, errors.NewNotificationSendFailedError(models.ChannelEmail, err).
				WithMetadata("requestId", input.RequestID)
		}
		email.Status = models.StatusSent
		email.MessageID = messageID
		output.EmailSent = true
	}
	output.Deliveries = append(output.Deliveries, email)

	output.Deliveries = append(output.Deliveries, h.deliverSMS(ctx, input))
	output.SMSSent = output.Deliveries[1].Status == models.StatusSent

	h.logger.Info("proposals delivered", map[string]interface{}{
		"requestId":      input.RequestID,
		"notificationId": output.NotificationID,
		"packageCount":   len(input.Packages),
		"emailSent":      output.EmailSent,
		"smsSent":        output.SMSSent,
	})
	return output, nil
}

func (h *Handler) deliverSMS(ctx context.Context, input *Input) models.Delivery {
	d := models.Delivery{Channel: models.ChannelSMS, Recipient: input.RecipientPhone}

	switch {
	case input.RecipientPhone == "":
		d.Status = models.StatusSkipped
	case !h.config.SMSEnabled:
		d.Status = models.StatusDisabled
	default:
		messageID, err := h.sendSMS(ctx, input.RecipientPhone, RenderSMS(input))
		if err != nil {
			h.logger.Warn("SMS send failed", map[string]interface{}{
				"requestId": input.RequestID,
				"error":     err,
			})
			d.Status = models.StatusFailed
			d.Error = err.Error()
			return d
		}
		d.Status = models.StatusSent
		d.MessageID = messageID
	}
	return d
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) (string, error) {
	out, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) (string, error) {
	params := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	}
	if h.config.SenderID != "" {
		params.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {DataType: aws.String("String"), StringValue: aws.String(h.config.SenderID)},
		}
	}

	out, err := h.snsClient.Publish(ctx, params)
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}
