package repository

import (
	"errors"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type baseRepository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

type Repository struct {
	// DB can be used for transaction. Example usage:
	// r.DB.Transaction(func(tx *gorm.DB) error { ... })
	// Then pass tx to the repository function.
	DB             *gorm.DB
	Record         *RecordRepository
	Document       *DocumentRepository
	Signature      *SignatureRepository
	Tribunal       *TribunalRepository
	Applicant      *ApplicantRepository
	Schedule       *ScheduleRepository
	TemplateConfig *TemplateConfigRepository
	DocumentLog    *DocumentLogRepository
}

func newBaseRepository(db *gorm.DB, logger *zap.SugaredLogger) *baseRepository {
	return &baseRepository{db: db, logger: logger}
}

func NewRepository(db *gorm.DB, logger *zap.SugaredLogger) *Repository {
	br := newBaseRepository(db, logger)

	return &Repository{
		DB:             db,
		Record:         &RecordRepository{baseRepository: br},
		Document:       &DocumentRepository{baseRepository: br},
		Signature:      &SignatureRepository{baseRepository: br},
		Tribunal:       &TribunalRepository{baseRepository: br},
		Applicant:      &ApplicantRepository{baseRepository: br},
		Schedule:       &ScheduleRepository{baseRepository: br},
		TemplateConfig: &TemplateConfigRepository{baseRepository: br},
		DocumentLog:    &DocumentLogRepository{baseRepository: br},
	}
}

// Note: GORM perform write (create/update/delete) operations run inside a transaction to ensure data consistency
// Docs: https://gorm.io/docs/transactions.html
func (b baseRepository) withTx(db *gorm.DB, fn func(*gorm.DB) error) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})

	if err != nil {
		b.logger.Debugf("withTx Transaction error: %v \n", err)
	}

	return err
}

func (b baseRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}

	return b.db
}

// notFound converts gorm.ErrRecordNotFound into a typed NOT_FOUND error.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(format, args...)
	}
	return err
}
