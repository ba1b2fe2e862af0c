// Package lifecycle composes concurso documents and drives them through signature collection.
package lifecycle

import (
	"context"

	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/util"
	"github.com/SeakMengs/AutoActa/pkg/pdfstamp"
)

// Reader is the read side shared by the store and its transactions.
// Missing rows are reported as apperror NOT_FOUND.
type Reader interface {
	GetRecord(ctx context.Context, recordID string) (*model.Concurso, error)
	GetDocument(ctx context.Context, documentID string) (*model.GeneratedDocument, error)
	// ListDocuments returns the documents of a record in creation order.
	ListDocuments(ctx context.Context, recordID string) ([]model.GeneratedDocument, error)
	ListSignatures(ctx context.Context, documentID string) ([]model.Signature, error)
	ListTribunal(ctx context.Context, recordID string) ([]model.TribunalMember, error)
	ListApplicants(ctx context.Context, recordID string) ([]model.Applicant, error)
	FindTribunalMember(ctx context.Context, recordID, userID string) (*model.TribunalMember, error)
}

// Tx is one local transaction. Lock methods hold the row until commit or rollback.
type Tx interface {
	Reader
	LockRecord(ctx context.Context, recordID string) (*model.Concurso, error)
	SaveRecord(ctx context.Context, record *model.Concurso) error
	LockDocument(ctx context.Context, documentID string) (*model.GeneratedDocument, error)
	ExistsDocumentOfType(ctx context.Context, recordID, typeKey string) (bool, error)
	CreateDocument(ctx context.Context, doc *model.GeneratedDocument) error
	SaveDocument(ctx context.Context, doc *model.GeneratedDocument) error
	DeleteDocument(ctx context.Context, documentID string) error
	HasSignature(ctx context.Context, documentID, signerID string) (bool, error)
	CreateSignature(ctx context.Context, sig *model.Signature) error
	DeleteSignatures(ctx context.Context, documentID string) (int64, error)
	// CountRequiredSigners counts the non-alternate tribunal members of a record.
	CountRequiredSigners(ctx context.Context, recordID string) (int, error)
	AppendLog(ctx context.Context, log *model.DocumentLog) error
}

// Store runs fn in a transaction, committing when fn returns nil.
type Store interface {
	Reader
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}

type Stamper interface {
	AddSignatureStamp(pdf []byte, signer pdfstamp.Signer, ordinal int) ([]byte, error)
	MergeWithCover(cover pdfstamp.Cover, docs []pdfstamp.LabeledPDF) ([]byte, []pdfstamp.FolioRange, error)
	VerifySigned(pdf []byte, expected []pdfstamp.Signer) (bool, []pdfstamp.Signer, error)
}

type SignatureRequest struct {
	RecipientName  string
	RecipientEmail string
	DocumentName   string
	RecordLabel    string
	FileName       string
	PDF            []byte
}

// Notifier delivers a draft to an external signer.
type Notifier interface {
	SignatureRequest(ctx context.Context, req SignatureRequest) error
}

// Actor is the authenticated caller, as carried by the identity token.
type Actor struct {
	ID      string             `json:"id"`
	Email   string             `json:"email"`
	Surname string             `json:"surname"`
	Name    string             `json:"name"`
	Role    constant.ActorRole `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == constant.ActorAdmin
}

func (a Actor) Can(permission constant.DocumentPermission) bool {
	return util.HasPermission([]constant.ActorRole{a.Role}, []constant.DocumentPermission{permission})
}
