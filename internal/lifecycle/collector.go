package lifecycle

import (
	"context"
	"fmt"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/pkg/pdfstamp"
)

// Sign appends the tribunal member's stamp to the final file. The document row stays
// locked from the duplicate check through the count increment, so concurrent signers
// get consecutive ordinals and the quorum transition happens once.
func (e *Engine) Sign(ctx context.Context, documentID string, actor Actor) (model.GeneratedDocument, error) {
	e.logger.Debugf("Sign document %s by: %s \n", documentID, actor.ID)

	if err := e.requirePermission(actor, constant.DocumentSign); err != nil {
		return model.GeneratedDocument{}, err
	}

	var doc *model.GeneratedDocument
	err := e.store.Transaction(ctx, func(tx Tx) error {
		var err error
		doc, err = tx.LockDocument(ctx, documentID)
		if err != nil {
			return err
		}

		signed, err := tx.HasSignature(ctx, doc.ID, actor.ID)
		if err != nil {
			return err
		}
		if signed {
			return apperror.AlreadySigned("you already signed this document")
		}
		if doc.State != constant.DocumentPendingSignature || !hasFinal(doc) {
			return apperror.WrongState("document is %s and cannot be signed", doc.State)
		}

		cfg, err := e.registry.Get(ctx, doc.TypeKey)
		if err != nil {
			return err
		}
		if !cfg.SignerCanSign {
			return apperror.Forbidden("%s is not signed by tribunal members", cfg.DisplayName)
		}

		member, err := tx.FindTribunalMember(ctx, doc.ConcursoID, actor.ID)
		if err != nil {
			return apperror.Forbidden("you are not a member of this tribunal")
		}

		pdf, err := e.download(ctx, *doc.FinalFileRef)
		if err != nil {
			return err
		}
		signer := pdfstamp.Signer{Surname: member.Surname, Name: member.Name, ID: actor.ID, Role: string(member.Role)}
		stamped, err := e.stamper.AddSignatureStamp(pdf, signer, doc.SignatureCount)
		if err != nil {
			return fmt.Errorf("failed to stamp signature: %w", err)
		}

		rctx, cancel := e.remoteCtx(ctx)
		defer cancel()
		if _, err := e.blobs.Overwrite(rctx, *doc.FinalFileRef, stamped); err != nil {
			return remote(err, "failed to store the signed file")
		}

		if err := tx.CreateSignature(ctx, &model.Signature{
			DocumentID:    doc.ID,
			SignerID:      actor.ID,
			SignerSurname: member.Surname,
			SignerName:    member.Name,
			SignerRole:    string(member.Role),
			Ordinal:       doc.SignatureCount,
		}); err != nil {
			return err
		}
		doc.SignatureCount++

		required, err := tx.CountRequiredSigners(ctx, doc.ConcursoID)
		if err != nil {
			return err
		}
		if doc.SignatureCount < required || doc.State == constant.DocumentSigned {
			if err := tx.SaveDocument(ctx, doc); err != nil {
				return err
			}
			return e.appendLog(ctx, tx, doc, actor, constant.ActionSign, fmt.Sprintf("signature %d of %d", doc.SignatureCount, required))
		}

		record, err := tx.LockRecord(ctx, doc.ConcursoID)
		if err != nil {
			return err
		}
		if err := e.applySigned(ctx, tx, record, doc, cfg); err != nil {
			return err
		}
		return e.changeState(ctx, tx, doc, constant.DocumentSigned, actor, constant.ActionSign)
	})
	if err != nil {
		return model.GeneratedDocument{}, err
	}
	return *doc, nil
}
