package lifecycle

import (
	"context"
	"strings"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/blobstore"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/placeholder"
)

// ConsiderandosKey is the template token that receives the substituted free-text blocks.
const ConsiderandosKey = "considerandos"

type ComposeRequest struct {
	RecordID      string
	TypeKey       string
	Considerandos []string
	Actor         Actor
}

type ComposeResult struct {
	Document model.GeneratedDocument `json:"document"`
	ViewURL  string                  `json:"viewUrl"`
}

// Compose creates a DRAFT document of req.TypeKey for the record. The record side
// effect and the document row commit together, and only after the file exists.
func (e *Engine) Compose(ctx context.Context, req ComposeRequest) (ComposeResult, error) {
	e.logger.Debugf("Compose %s for record: %s \n", req.TypeKey, req.RecordID)

	if err := e.requirePermission(req.Actor, constant.DocumentCompose); err != nil {
		return ComposeResult{}, err
	}

	record, err := e.store.GetRecord(ctx, req.RecordID)
	if err != nil {
		return ComposeResult{}, err
	}

	cfg, err := e.registry.GetFor(ctx, req.TypeKey, record.Kind)
	if err != nil {
		return ComposeResult{}, err
	}
	if cfg.TemplateFileID == "" {
		return ComposeResult{}, apperror.NotConfigured("document type %s has no template file", cfg.TypeKey)
	}

	data, err := e.resolver.ResolveDocument(ctx, record.ID)
	if err != nil {
		return ComposeResult{}, err
	}
	data[ConsiderandosKey] = composeConsiderandos(req.Considerandos, data)

	folderID, err := e.ensureFolder(ctx, record)
	if err != nil {
		return ComposeResult{}, err
	}

	var (
		doc     model.GeneratedDocument
		created *blobstore.FileRef
	)
	err = e.store.Transaction(ctx, func(tx Tx) error {
		locked, err := tx.LockRecord(ctx, record.ID)
		if err != nil {
			return err
		}

		if cfg.UniquePerRecord {
			exists, err := tx.ExistsDocumentOfType(ctx, record.ID, cfg.TypeKey)
			if err != nil {
				return err
			}
			if exists {
				return apperror.DuplicateDocument("a %s already exists for this record", cfg.DisplayName)
			}
		}

		doc = model.GeneratedDocument{
			ConcursoID: record.ID,
			TypeKey:    cfg.TypeKey,
			State:      constant.DocumentDraft,
			CreatedBy:  req.Actor.ID,
		}
		doc.DraftEffect = ApplyEffect(locked, cfg.OnDraftCreated, false)
		if doc.DraftEffect.Applied {
			if err := tx.SaveRecord(ctx, locked); err != nil {
				return err
			}
		}

		rctx, cancel := e.remoteCtx(ctx)
		defer cancel()
		ref, err := e.blobs.CreateFromTemplate(rctx, cfg.TemplateFileID, data, folderID, blobstore.DocumentFileName(cfg, *record))
		if err != nil {
			return remote(err, "failed to create the document file")
		}
		created = &ref
		doc.DraftFileRef = &ref.ID

		if err := tx.CreateDocument(ctx, &doc); err != nil {
			return err
		}
		return e.appendLog(ctx, tx, &doc, req.Actor, constant.ActionCompose, "composed "+cfg.TypeKey)
	})
	if err != nil {
		if created != nil {
			e.deleteBlob(ctx, created.ID)
		}
		return ComposeResult{}, err
	}

	e.logger.Infow("document composed", "documentId", doc.ID, "recordId", record.ID, "typeKey", cfg.TypeKey)
	return ComposeResult{Document: doc, ViewURL: created.ViewURL}, nil
}

// composeConsiderandos substitutes placeholders in each block and joins them as paragraphs.
func composeConsiderandos(blocks []string, data placeholder.Set) string {
	var out []string
	for _, b := range blocks {
		if b = strings.TrimSpace(placeholder.Substitute(b, data)); b != "" {
			out = append(out, b)
		}
	}
	return strings.Join(out, "\n\n")
}

// ensureFolder returns the record folder, creating it or renaming it when the
// computed name changed. It commits on its own so the folder survives a failed compose.
func (e *Engine) ensureFolder(ctx context.Context, record *model.Concurso) (string, error) {
	name := blobstore.RecordFolderName(*record)
	if record.FolderID != "" && record.FolderName == name {
		return record.FolderID, nil
	}

	var folderID string
	err := e.store.Transaction(ctx, func(tx Tx) error {
		locked, err := tx.LockRecord(ctx, record.ID)
		if err != nil {
			return err
		}

		rctx, cancel := e.remoteCtx(ctx)
		defer cancel()

		switch {
		case locked.FolderID == "":
			id, err := e.blobs.CreateFolder(rctx, name)
			if err != nil {
				return remote(err, "failed to create the record folder")
			}
			locked.FolderID = id
		case locked.FolderName != name:
			if err := e.blobs.RenameFolder(rctx, locked.FolderID, name); err != nil {
				return remote(err, "failed to rename the record folder")
			}
		}

		locked.FolderName = name
		folderID = locked.FolderID
		return tx.SaveRecord(ctx, locked)
	})
	if err != nil {
		return "", err
	}

	record.FolderID = folderID
	record.FolderName = name
	return folderID, nil
}
