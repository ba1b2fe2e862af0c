package lifecycle

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/blobstore"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/registry"
	"github.com/SeakMengs/AutoActa/pkg/pdfstamp"
)

type SendRequest struct {
	DocumentID string
	// RecipientUserID selects a tribunal member of the record as recipient.
	RecipientUserID string
	// RecipientEmail and RecipientName are used when no member is selected.
	RecipientEmail string
	RecipientName  string
	Actor          Actor
}

type UploadRequest struct {
	DocumentID string
	FileName   string
	Content    []byte
	Actor      Actor
}

// SendForSignature mails the draft to an external signer. Failed delivery leaves the document untouched.
func (e *Engine) SendForSignature(ctx context.Context, req SendRequest) (model.GeneratedDocument, error) {
	e.logger.Debugf("Send document for signature: %s \n", req.DocumentID)

	if err := e.requirePermission(req.Actor, constant.DocumentSend); err != nil {
		return model.GeneratedDocument{}, err
	}

	var doc *model.GeneratedDocument
	err := e.store.Transaction(ctx, func(tx Tx) error {
		var err error
		doc, err = tx.LockDocument(ctx, req.DocumentID)
		if err != nil {
			return err
		}

		cfg, err := e.registry.Get(ctx, doc.TypeKey)
		if err != nil {
			return err
		}
		if registry.ClassOf(cfg) != constant.ClassResolution {
			e.logger.Debugf("Document %s of type %s is not a resolution \n", doc.ID, cfg.TypeKey)
			return apperror.InvalidTransition(doc.State.String(), constant.DocumentSentForSignature.String())
		}
		if !cfg.AdminCanSendForSignature {
			return apperror.Forbidden("%s cannot be sent for signature", cfg.DisplayName)
		}
		if err := Transition(doc.State, constant.DocumentSentForSignature); err != nil {
			return err
		}
		if !hasDraft(doc) {
			return apperror.WrongState("document has no draft file")
		}

		record, err := tx.GetRecord(ctx, doc.ConcursoID)
		if err != nil {
			return err
		}
		name, email, err := e.recipient(ctx, tx, record.ID, req)
		if err != nil {
			return err
		}

		pdf, err := e.download(ctx, *doc.DraftFileRef)
		if err != nil {
			return err
		}

		rctx, cancel := e.remoteCtx(ctx)
		defer cancel()
		if err := e.notifier.SignatureRequest(rctx, SignatureRequest{
			RecipientName:  name,
			RecipientEmail: email,
			DocumentName:   cfg.DisplayName,
			RecordLabel:    recordLabel(*record),
			FileName:       blobstore.DocumentFileName(cfg, *record),
			PDF:            pdf,
		}); err != nil {
			return remote(err, "failed to deliver the signature request")
		}

		return e.changeState(ctx, tx, doc, constant.DocumentSentForSignature, req.Actor, constant.ActionSend)
	})
	if err != nil {
		return model.GeneratedDocument{}, err
	}
	return *doc, nil
}

func (e *Engine) recipient(ctx context.Context, tx Tx, recordID string, req SendRequest) (string, string, error) {
	if req.RecipientUserID != "" {
		m, err := tx.FindTribunalMember(ctx, recordID, req.RecipientUserID)
		if err != nil {
			return "", "", err
		}
		if m.Email == "" {
			return "", "", apperror.InvalidRequest("tribunal member %s %s has no email address", m.Name, m.Surname)
		}
		return strings.TrimSpace(m.Name + " " + m.Surname), m.Email, nil
	}

	if strings.TrimSpace(req.RecipientEmail) == "" {
		return "", "", apperror.InvalidRequest("a recipient email address is required")
	}
	return req.RecipientName, strings.TrimSpace(req.RecipientEmail), nil
}

// OpenForSignature promotes the draft to the final file so tribunal members can sign in-app.
func (e *Engine) OpenForSignature(ctx context.Context, documentID string, actor Actor) (model.GeneratedDocument, error) {
	e.logger.Debugf("Open document for signature: %s \n", documentID)

	if err := e.requirePermission(actor, constant.DocumentOpen); err != nil {
		return model.GeneratedDocument{}, err
	}

	var (
		doc     *model.GeneratedDocument
		created string
	)
	err := e.store.Transaction(ctx, func(tx Tx) error {
		var err error
		doc, err = tx.LockDocument(ctx, documentID)
		if err != nil {
			return err
		}

		cfg, err := e.registry.Get(ctx, doc.TypeKey)
		if err != nil {
			return err
		}
		if !cfg.SignerCanSign {
			return apperror.Forbidden("%s is not signed by tribunal members", cfg.DisplayName)
		}
		if doc.State != constant.DocumentDraft {
			return apperror.InvalidTransition(doc.State.String(), constant.DocumentPendingSignature.String())
		}
		if !hasDraft(doc) {
			return apperror.WrongState("document has no draft file")
		}

		record, err := tx.GetRecord(ctx, doc.ConcursoID)
		if err != nil {
			return err
		}
		pdf, err := e.download(ctx, *doc.DraftFileRef)
		if err != nil {
			return err
		}

		rctx, cancel := e.remoteCtx(ctx)
		defer cancel()
		ref, err := e.blobs.Upload(rctx, record.FolderID, finalFileName(blobstore.DocumentFileName(cfg, *record)), pdf)
		if err != nil {
			return remote(err, "failed to create the signature copy")
		}
		created = ref.ID

		if _, err := tx.DeleteSignatures(ctx, doc.ID); err != nil {
			return err
		}
		doc.FinalFileRef = &ref.ID
		doc.SignatureCount = 0
		return e.changeState(ctx, tx, doc, constant.DocumentPendingSignature, actor, constant.ActionOpen)
	})
	if err != nil {
		if created != "" {
			e.deleteBlob(ctx, created)
		}
		return model.GeneratedDocument{}, err
	}
	return *doc, nil
}

// UploadSigned replaces the final file with an externally signed copy and restarts collection.
func (e *Engine) UploadSigned(ctx context.Context, req UploadRequest) (model.GeneratedDocument, error) {
	e.logger.Debugf("Upload signed document: %s \n", req.DocumentID)

	if err := e.requirePermission(req.Actor, constant.DocumentUploadSigned); err != nil {
		return model.GeneratedDocument{}, err
	}
	if !bytes.HasPrefix(req.Content, []byte("%PDF-")) {
		return model.GeneratedDocument{}, apperror.InvalidRequest("the signed file must be a PDF")
	}

	var (
		doc     *model.GeneratedDocument
		created string
	)
	err := e.store.Transaction(ctx, func(tx Tx) error {
		var err error
		doc, err = tx.LockDocument(ctx, req.DocumentID)
		if err != nil {
			return err
		}

		cfg, err := e.registry.Get(ctx, doc.TypeKey)
		if err != nil {
			return err
		}
		if !cfg.SignerCanUploadSigned {
			return apperror.Forbidden("signed copies of %s cannot be uploaded", cfg.DisplayName)
		}
		if !req.Actor.IsAdmin() {
			m, err := tx.FindTribunalMember(ctx, doc.ConcursoID, req.Actor.ID)
			if err != nil || !m.CanUploadSigned {
				return apperror.Forbidden("you are not allowed to upload signed copies for this record")
			}
		}
		if err := Transition(doc.State, constant.DocumentPendingSignature); err != nil {
			return err
		}

		rctx, cancel := e.remoteCtx(ctx)
		defer cancel()
		if hasFinal(doc) {
			if _, err := e.blobs.Overwrite(rctx, *doc.FinalFileRef, req.Content); err != nil {
				return remote(err, "failed to store the signed file")
			}
		} else {
			record, err := tx.GetRecord(ctx, doc.ConcursoID)
			if err != nil {
				return err
			}
			name := req.FileName
			if name == "" {
				name = finalFileName(blobstore.DocumentFileName(cfg, *record))
			}
			ref, err := e.blobs.Upload(rctx, record.FolderID, name, req.Content)
			if err != nil {
				return remote(err, "failed to store the signed file")
			}
			created = ref.ID
			doc.FinalFileRef = &ref.ID
		}

		if _, err := tx.DeleteSignatures(ctx, doc.ID); err != nil {
			return err
		}
		doc.SignatureCount = 0
		return e.changeState(ctx, tx, doc, constant.DocumentPendingSignature, req.Actor, constant.ActionUpload)
	})
	if err != nil {
		if created != "" {
			e.deleteBlob(ctx, created)
		}
		return model.GeneratedDocument{}, err
	}
	return *doc, nil
}

// AdminDirectSign stamps the draft with the admin's signature and closes the document.
func (e *Engine) AdminDirectSign(ctx context.Context, documentID string, actor Actor) (model.GeneratedDocument, error) {
	e.logger.Debugf("Admin direct sign document: %s \n", documentID)

	if err := e.requirePermission(actor, constant.DocumentAdminSign); err != nil {
		return model.GeneratedDocument{}, err
	}

	var (
		doc     *model.GeneratedDocument
		created string
	)
	err := e.store.Transaction(ctx, func(tx Tx) error {
		var err error
		doc, err = tx.LockDocument(ctx, documentID)
		if err != nil {
			return err
		}

		cfg, err := e.registry.Get(ctx, doc.TypeKey)
		if err != nil {
			return err
		}
		if !cfg.AdminCanSign {
			return apperror.Forbidden("%s cannot be signed by an administrator", cfg.DisplayName)
		}

		signed, err := tx.HasSignature(ctx, doc.ID, actor.ID)
		if err != nil {
			return err
		}
		if signed {
			return apperror.AlreadySigned("you already signed this document")
		}
		if doc.State != constant.DocumentDraft {
			return apperror.InvalidTransition(doc.State.String(), constant.DocumentSigned.String())
		}
		if !hasDraft(doc) {
			return apperror.WrongState("document has no draft file")
		}

		pdf, err := e.download(ctx, *doc.DraftFileRef)
		if err != nil {
			return err
		}
		signer := pdfstamp.Signer{Surname: actor.Surname, Name: actor.Name, ID: actor.ID, Role: string(actor.Role)}
		stamped, err := e.stamper.AddSignatureStamp(pdf, signer, doc.SignatureCount)
		if err != nil {
			return fmt.Errorf("failed to stamp signature: %w", err)
		}

		record, err := tx.LockRecord(ctx, doc.ConcursoID)
		if err != nil {
			return err
		}

		rctx, cancel := e.remoteCtx(ctx)
		defer cancel()
		ref, err := e.blobs.Upload(rctx, record.FolderID, finalFileName(blobstore.DocumentFileName(cfg, *record)), stamped)
		if err != nil {
			return remote(err, "failed to store the signed file")
		}
		created = ref.ID

		if err := tx.CreateSignature(ctx, &model.Signature{
			DocumentID:    doc.ID,
			SignerID:      actor.ID,
			SignerSurname: actor.Surname,
			SignerName:    actor.Name,
			SignerRole:    string(actor.Role),
			Ordinal:       doc.SignatureCount,
		}); err != nil {
			return err
		}

		doc.FinalFileRef = &ref.ID
		doc.SignatureCount++
		if err := e.applySigned(ctx, tx, record, doc, cfg); err != nil {
			return err
		}
		return e.changeState(ctx, tx, doc, constant.DocumentSigned, actor, constant.ActionAdminSign)
	})
	if err != nil {
		if created != "" {
			e.deleteBlob(ctx, created)
		}
		return model.GeneratedDocument{}, err
	}
	return *doc, nil
}

// applySigned records the onFullySigned effect of cfg on the locked record.
func (e *Engine) applySigned(ctx context.Context, tx Tx, record *model.Concurso, doc *model.GeneratedDocument, cfg model.TemplateConfig) error {
	doc.SignedEffect = ApplyEffect(record, cfg.OnFullySigned, true)
	if !doc.SignedEffect.Applied {
		return nil
	}
	return tx.SaveRecord(ctx, record)
}

// ResetToDraft discards the final file and signatures, reversing the signed effect if any.
func (e *Engine) ResetToDraft(ctx context.Context, documentID string, actor Actor) (model.GeneratedDocument, error) {
	e.logger.Debugf("Reset document to draft: %s \n", documentID)

	if err := e.requirePermission(actor, constant.DocumentReset); err != nil {
		return model.GeneratedDocument{}, err
	}

	var (
		doc     *model.GeneratedDocument
		removed string
	)
	err := e.store.Transaction(ctx, func(tx Tx) error {
		var err error
		doc, err = tx.LockDocument(ctx, documentID)
		if err != nil {
			return err
		}
		if doc.State == constant.DocumentDraft {
			return apperror.InvalidTransition(doc.State.String(), constant.DocumentDraft.String())
		}
		if err := Transition(doc.State, constant.DocumentDraft); err != nil {
			return err
		}

		if doc.SignedEffect.Applied {
			record, err := tx.LockRecord(ctx, doc.ConcursoID)
			if err != nil {
				return err
			}
			if ReverseEffect(record, doc.SignedEffect) {
				if err := tx.SaveRecord(ctx, record); err != nil {
					return err
				}
			}
			doc.SignedEffect = model.AppliedEffect{}
		}

		if _, err := tx.DeleteSignatures(ctx, doc.ID); err != nil {
			return err
		}
		if hasFinal(doc) && (!hasDraft(doc) || *doc.FinalFileRef != *doc.DraftFileRef) {
			removed = *doc.FinalFileRef
		}
		doc.FinalFileRef = nil
		doc.SignatureCount = 0
		return e.changeState(ctx, tx, doc, constant.DocumentDraft, actor, constant.ActionReset)
	})
	if err != nil {
		return model.GeneratedDocument{}, err
	}

	if removed != "" {
		e.deleteBlob(ctx, removed)
	}
	return *doc, nil
}

// DeleteDraft removes a DRAFT document and reverses its draft effect.
func (e *Engine) DeleteDraft(ctx context.Context, documentID string, actor Actor) error {
	e.logger.Debugf("Delete draft document: %s \n", documentID)

	if err := e.requirePermission(actor, constant.DocumentDelete); err != nil {
		return err
	}

	var removed []string
	err := e.store.Transaction(ctx, func(tx Tx) error {
		doc, err := tx.LockDocument(ctx, documentID)
		if err != nil {
			return err
		}
		if err := Transition(doc.State, StateDeleted); err != nil {
			return err
		}

		if doc.DraftEffect.Applied {
			record, err := tx.LockRecord(ctx, doc.ConcursoID)
			if err != nil {
				return err
			}
			if ReverseEffect(record, doc.DraftEffect) {
				if err := tx.SaveRecord(ctx, record); err != nil {
					return err
				}
			}
		}

		if _, err := tx.DeleteSignatures(ctx, doc.ID); err != nil {
			return err
		}
		if err := e.appendLog(ctx, tx, doc, actor, constant.ActionDeleteDraft, "deleted "+doc.TypeKey); err != nil {
			return err
		}
		if err := tx.DeleteDocument(ctx, doc.ID); err != nil {
			return err
		}

		if hasDraft(doc) {
			removed = append(removed, *doc.DraftFileRef)
		}
		if hasFinal(doc) {
			removed = append(removed, *doc.FinalFileRef)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.logger.Infow("draft document deleted", "documentId", documentID)
	for _, id := range removed {
		e.deleteBlob(ctx, id)
	}
	return nil
}

// MemberSign is the in-app signature of a tribunal member.
func (e *Engine) MemberSign(ctx context.Context, documentID string, actor Actor) (model.GeneratedDocument, error) {
	return e.Sign(ctx, documentID, actor)
}

func finalFileName(draftName string) string {
	base := strings.TrimSuffix(draftName, ".pdf")
	return base + " (firma).pdf"
}
