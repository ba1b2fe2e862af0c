package mailer

import (
	"context"
	"fmt"

	"github.com/SeakMengs/AutoActa/internal/lifecycle"
	"github.com/SeakMengs/AutoActa/internal/util"
)

type SignatureRequestData struct {
	RecipientName string
	DocumentName  string
	RecordLabel   string
	AppName       string
}

// SignatureNotifier delivers signature requests by email with the draft attached.
type SignatureNotifier struct {
	client Client
}

func NewSignatureNotifier(client Client) *SignatureNotifier {
	return &SignatureNotifier{client: client}
}

func (n *SignatureNotifier) SignatureRequest(ctx context.Context, req lifecycle.SignatureRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := SignatureRequestData{
		RecipientName: req.RecipientName,
		DocumentName:  req.DocumentName,
		RecordLabel:   req.RecordLabel,
		AppName:       util.GetAppName(),
	}
	attachment := Attachment{
		FileName:    req.FileName,
		ContentType: "application/pdf",
		Content:     req.PDF,
	}

	status, err := n.client.SendWithAttachment(SIGNATURE_REQUEST_TEMPLATE, req.RecipientName, req.RecipientEmail, data, attachment)
	if err != nil {
		return fmt.Errorf("send signature request to %s (status %d): %w", req.RecipientEmail, status, err)
	}
	return nil
}
