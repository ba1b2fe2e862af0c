package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/blobstore"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/placeholder"
	"github.com/SeakMengs/AutoActa/internal/registry"
	"go.uber.org/zap"
)

const defaultRemoteTimeout = 30 * time.Second

type Dependencies struct {
	Store    Store
	Registry *registry.Registry
	Resolver *placeholder.Resolver
	Blobs    blobstore.Store
	Stamper  Stamper
	Notifier Notifier
	Logger   *zap.SugaredLogger

	// RemoteTimeout bounds each blob or notification call.
	RemoteTimeout time.Duration
	// PublicURL, when set, is encoded as a QR link on dossier covers.
	PublicURL string
	Now       func() time.Time
}

// Engine owns every document transition. All mutations of a document go through it.
type Engine struct {
	store         Store
	registry      *registry.Registry
	resolver      *placeholder.Resolver
	blobs         blobstore.Store
	stamper       Stamper
	notifier      Notifier
	logger        *zap.SugaredLogger
	remoteTimeout time.Duration
	publicURL     string
	now           func() time.Time
}

func NewEngine(deps Dependencies) *Engine {
	if deps.RemoteTimeout <= 0 {
		deps.RemoteTimeout = defaultRemoteTimeout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}

	return &Engine{
		store:         deps.Store,
		registry:      deps.Registry,
		resolver:      deps.Resolver,
		blobs:         deps.Blobs,
		stamper:       deps.Stamper,
		notifier:      deps.Notifier,
		logger:        deps.Logger,
		remoteTimeout: deps.RemoteTimeout,
		publicURL:     deps.PublicURL,
		now:           deps.Now,
	}
}

func (e *Engine) remoteCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.remoteTimeout)
}

// remote classifies a collaborator failure. Typed errors pass through untouched.
func remote(err error, format string, args ...any) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.RemoteUnavailable(err, format, args...)
}

// deleteBlob is a compensating delete; failures are logged, never returned.
func (e *Engine) deleteBlob(ctx context.Context, fileID string) {
	rctx, cancel := e.remoteCtx(context.WithoutCancel(ctx))
	defer cancel()

	if err := e.blobs.Delete(rctx, fileID); err != nil && !errors.Is(err, blobstore.ErrObjectNotFound) {
		e.logger.Errorw("failed to delete orphaned file", "fileId", fileID, "error", err)
	}
}

func (e *Engine) download(ctx context.Context, fileID string) ([]byte, error) {
	rctx, cancel := e.remoteCtx(ctx)
	defer cancel()

	content, err := e.blobs.Download(rctx, fileID)
	if err != nil {
		return nil, remote(err, "failed to download document file")
	}
	return content, nil
}

func (e *Engine) requirePermission(actor Actor, permission constant.DocumentPermission) error {
	if !actor.Can(permission) {
		return apperror.Forbidden("you do not have permission to perform this action")
	}
	return nil
}

func (e *Engine) changeState(ctx context.Context, tx Tx, doc *model.GeneratedDocument, to constant.DocumentState, actor Actor, action constant.DocumentAction) error {
	from := doc.State
	doc.State = to
	if err := tx.SaveDocument(ctx, doc); err != nil {
		return err
	}

	e.logger.Infow("document state changed", "documentId", doc.ID, "from", from, "to", to, "action", action)
	return e.appendLog(ctx, tx, doc, actor, action, fmt.Sprintf("%s: %s -> %s", action, from, to))
}

func (e *Engine) appendLog(ctx context.Context, tx Tx, doc *model.GeneratedDocument, actor Actor, action constant.DocumentAction, description string) error {
	return tx.AppendLog(ctx, &model.DocumentLog{
		ActorID:     actor.ID,
		Role:        string(actor.Role),
		Action:      action,
		Description: description,
		DocumentID:  doc.ID,
		ConcursoID:  doc.ConcursoID,
	})
}

// currentFile is the final file when present, the draft otherwise.
func currentFile(doc model.GeneratedDocument) (string, bool) {
	if doc.FinalFileRef != nil && *doc.FinalFileRef != "" {
		return *doc.FinalFileRef, true
	}
	if doc.DraftFileRef != nil && *doc.DraftFileRef != "" {
		return *doc.DraftFileRef, true
	}
	return "", false
}

func hasDraft(doc *model.GeneratedDocument) bool {
	return doc.DraftFileRef != nil && *doc.DraftFileRef != ""
}

func hasFinal(doc *model.GeneratedDocument) bool {
	return doc.FinalFileRef != nil && *doc.FinalFileRef != ""
}

func recordLabel(r model.Concurso) string {
	if r.Expediente != "" {
		return r.Expediente
	}
	return r.ID
}
