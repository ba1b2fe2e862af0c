package appcontext

import (
	"context"

	"github.com/SeakMengs/AutoActa/internal/auth"
	"github.com/SeakMengs/AutoActa/internal/blobstore"
	"github.com/SeakMengs/AutoActa/internal/config"
	"github.com/SeakMengs/AutoActa/internal/lifecycle"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/registry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DocumentLogs is the read side of the document audit trail.
type DocumentLogs interface {
	ListByRecord(ctx context.Context, tx *gorm.DB, recordID string, page, pageSize uint) ([]model.DocumentLog, int64, error)
}

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	Logger *zap.SugaredLogger

	// Engine owns every document transition.
	Engine *lifecycle.Engine

	Registry *registry.Registry

	// Blobs resolves view links of document files.
	Blobs blobstore.Store

	DocumentLogs DocumentLogs

	// JWTService verifies the identity tokens of callers.
	JWTService auth.JWTInterface
}
