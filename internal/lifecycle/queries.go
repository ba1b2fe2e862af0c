package lifecycle

import (
	"context"
	"fmt"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/placeholder"
	"github.com/SeakMengs/AutoActa/pkg/pdfstamp"
)

type VerifyResult struct {
	DocumentID string            `json:"documentId"`
	Expected   int               `json:"expected"`
	Valid      bool              `json:"valid"`
	Missing    []pdfstamp.Signer `json:"missing"`
}

// ListDocuments returns the record documents the actor may see. Tribunal members only
// see documents whose visibility rules admit their role and group in the current state.
func (e *Engine) ListDocuments(ctx context.Context, recordID string, actor Actor) ([]model.GeneratedDocument, error) {
	e.logger.Debugf("List documents of record: %s \n", recordID)

	docs, err := e.store.ListDocuments(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return docs, nil
	}

	member, err := e.store.FindTribunalMember(ctx, recordID, actor.ID)
	if err != nil {
		return nil, apperror.Forbidden("you are not a member of this tribunal")
	}

	visible := make([]model.GeneratedDocument, 0, len(docs))
	for _, d := range docs {
		if e.visibleTo(ctx, d, member) {
			visible = append(visible, d)
		}
	}
	return visible, nil
}

func (e *Engine) visibleTo(ctx context.Context, doc model.GeneratedDocument, member *model.TribunalMember) bool {
	cfg, err := e.registry.Get(ctx, doc.TypeKey)
	if err != nil {
		return false
	}
	return e.registry.IsVisibleTo(cfg, doc.State, string(member.Role), string(member.Group))
}

// readableDocument loads a document and applies the same rules as ListDocuments.
func (e *Engine) readableDocument(ctx context.Context, documentID string, actor Actor) (*model.GeneratedDocument, error) {
	doc, err := e.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return doc, nil
	}

	member, err := e.store.FindTribunalMember(ctx, doc.ConcursoID, actor.ID)
	if err != nil {
		return nil, apperror.Forbidden("you are not a member of this tribunal")
	}
	if !e.visibleTo(ctx, *doc, member) {
		return nil, apperror.Forbidden("this document is not visible to you in its current state")
	}
	return doc, nil
}

func (e *Engine) GetDocument(ctx context.Context, documentID string, actor Actor) (model.GeneratedDocument, error) {
	doc, err := e.readableDocument(ctx, documentID, actor)
	if err != nil {
		return model.GeneratedDocument{}, err
	}
	return *doc, nil
}

// Placeholders resolves the core placeholder set, addressed to signerID when given.
func (e *Engine) Placeholders(ctx context.Context, recordID string, signerID *string) (placeholder.Set, error) {
	return e.resolver.Resolve(ctx, recordID, signerID)
}

// VerifyDocument checks that every recorded signature appears in the current file.
func (e *Engine) VerifyDocument(ctx context.Context, documentID string, actor Actor) (VerifyResult, error) {
	e.logger.Debugf("Verify document signatures: %s \n", documentID)

	doc, err := e.readableDocument(ctx, documentID, actor)
	if err != nil {
		return VerifyResult{}, err
	}
	fileID, ok := currentFile(*doc)
	if !ok {
		return VerifyResult{}, apperror.WrongState("document has no file")
	}

	sigs, err := e.store.ListSignatures(ctx, documentID)
	if err != nil {
		return VerifyResult{}, err
	}
	expected := make([]pdfstamp.Signer, len(sigs))
	for i, s := range sigs {
		expected[i] = pdfstamp.Signer{Surname: s.SignerSurname, Name: s.SignerName, ID: s.SignerID, Role: s.SignerRole}
	}

	pdf, err := e.download(ctx, fileID)
	if err != nil {
		return VerifyResult{}, err
	}
	valid, missing, err := e.stamper.VerifySigned(pdf, expected)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("failed to read document file: %w", err)
	}

	return VerifyResult{DocumentID: doc.ID, Expected: len(expected), Valid: valid, Missing: missing}, nil
}
