package mailer

import (
	"fmt"
	"io"
	"net/http"

	"github.com/SeakMengs/AutoActa/internal/util"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPMailer delivers through a plain SMTP relay.
type SMTPMailer struct {
	fromEmail string
	fromName  string
	dialer    *gomail.Dialer
	logger    *zap.SugaredLogger
}

func NewSMTPMailer(host string, port int, username, password, fromEmail string, logger *zap.SugaredLogger) *SMTPMailer {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("development")
	}

	return &SMTPMailer{
		fromEmail: fromEmail,
		fromName:  util.GetAppName(),
		dialer:    gomail.NewDialer(host, port, username, password),
		logger:    logger,
	}
}

func (sm *SMTPMailer) message(templateFile, toName, toEmail string, data any) (*gomail.Message, error) {
	subject, body, err := render(templateFile, data)
	if err != nil {
		sm.logger.Errorw("failed to render email template", "error", err, "templateFile", templateFile)
		return nil, err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", message.FormatAddress(sm.fromEmail, sm.fromName))
	message.SetHeader("To", message.FormatAddress(toEmail, toName))
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)
	return message, nil
}

func (sm *SMTPMailer) deliver(message *gomail.Message, toEmail, templateFile string) (int, error) {
	if err := sm.dialer.DialAndSend(message); err != nil {
		sm.logger.Errorw("failed to send email", "error", err, "toEmail", toEmail, "templateFile", templateFile)
		return http.StatusInternalServerError, fmt.Errorf("failed to send email: %w", err)
	}

	sm.logger.Infow("email sent successfully", "toEmail", toEmail, "templateFile", templateFile)
	return http.StatusOK, nil
}

func (sm *SMTPMailer) Send(templateFile, toName, toEmail string, data any) (int, error) {
	message, err := sm.message(templateFile, toName, toEmail, data)
	if err != nil {
		return http.StatusInternalServerError, err
	}
	return sm.deliver(message, toEmail, templateFile)
}

func (sm *SMTPMailer) SendWithAttachment(templateFile, toName, toEmail string, data any, attachment Attachment) (int, error) {
	message, err := sm.message(templateFile, toName, toEmail, data)
	if err != nil {
		return http.StatusInternalServerError, err
	}

	content := attachment.Content
	message.Attach(attachment.FileName,
		gomail.SetHeader(map[string][]string{"Content-Type": {attachment.ContentType}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}),
	)
	return sm.deliver(message, toEmail, templateFile)
}
