package mailer

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/SeakMengs/AutoActa/internal/util"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type SendGridMailer struct {
	fromEmail string
	fromName  string
	client    *sendgrid.Client
	isSandBox bool
	logger    *zap.SugaredLogger
}

func NewSendgrid(apiKey, fromEmail, fromName string, isProduction bool, logger *zap.SugaredLogger) *SendGridMailer {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("development")
	}
	if fromName == "" {
		fromName = util.GetAppName()
	}

	return &SendGridMailer{
		fromEmail: fromEmail,
		fromName:  fromName,
		client:    sendgrid.NewSendClient(apiKey),
		// Sandbox mode is only used to validate your request. The email will never be delivered while this feature is enabled!
		isSandBox: !isProduction,
		logger:    logger,
	}
}

func (m SendGridMailer) Send(templateFile, toName, toEmail string, data any) (int, error) {
	return m.send(templateFile, toName, toEmail, data, nil)
}

// SendWithAttachment sends the template with one file attached, e.g. a draft PDF to sign.
func (m SendGridMailer) SendWithAttachment(templateFile, toName, toEmail string, data any, attachment Attachment) (int, error) {
	return m.send(templateFile, toName, toEmail, data, &attachment)
}

func (m SendGridMailer) send(templateFile, toName, toEmail string, data any, attachment *Attachment) (int, error) {
	subject, body, err := render(templateFile, data)
	if err != nil {
		m.logger.Errorf("Error occurred during mail template rendering, error: %v", err)
		return -1, err
	}

	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", body)

	if attachment != nil {
		a := mail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(attachment.Content))
		a.SetType(attachment.ContentType)
		a.SetFilename(attachment.FileName)
		a.SetDisposition("attachment")
		message.AddAttachment(a)
	}

	message.SetMailSettings(&mail.MailSettings{
		SandboxMode: &mail.Setting{
			Enable: &m.isSandBox,
		},
	})

	var retryErr error
	for i := 0; i < MAX_RETRY; i++ {
		response, err := m.client.Send(message)
		if err == nil && response.StatusCode < http.StatusMultipleChoices {
			return response.StatusCode, nil
		}

		if err != nil {
			retryErr = err
		} else {
			retryErr = fmt.Errorf("sendgrid responded with status %d", response.StatusCode)
			// client errors will not get better by retrying
			if response.StatusCode < http.StatusInternalServerError {
				return response.StatusCode, retryErr
			}
		}

		// linear backoff
		time.Sleep(time.Second * time.Duration(i+1))
	}

	m.logger.Errorf("Failed to send email after %d attempt, error: %v", MAX_RETRY, retryErr)

	return -1, fmt.Errorf("failed to send email after %d attempt: %w", MAX_RETRY, retryErr)
}
