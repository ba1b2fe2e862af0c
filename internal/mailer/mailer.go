package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/SeakMengs/AutoActa/internal/config"
	"go.uber.org/zap"
)

const (
	MAX_RETRY = 3

	SIGNATURE_REQUEST_TEMPLATE = "document_signature_request.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Attachment struct {
	FileName    string
	ContentType string
	Content     []byte
}

type Client interface {
	Send(templateFile, toName, toEmail string, data any) (int, error)
	SendWithAttachment(templateFile, toName, toEmail string, data any, attachment Attachment) (int, error)
}

// render executes the "subject" and "body" blocks of an embedded template.
func render(templateFile string, data any) (string, string, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return "", "", err
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return "", "", err
	}

	return subject.String(), body.String(), nil
}

// New builds the client selected by cfg.DRIVER.
func New(cfg config.MailConfig, isProduction bool, logger *zap.SugaredLogger) (Client, error) {
	switch cfg.DRIVER {
	case "", "sendgrid":
		return NewSendgrid(cfg.SEND_GRID.API_KEY, cfg.FROM_EMAIL, cfg.FROM_NAME, isProduction, logger), nil
	case "smtp":
		return NewSMTPMailer(cfg.SMTP.HOST, cfg.SMTP.PORT, cfg.SMTP.USERNAME, cfg.SMTP.PASSWORD, cfg.FROM_EMAIL, logger), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.DRIVER)
	}
}
