package repository

import (
	"context"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentRepository struct {
	*baseRepository
}

func (dr DocumentRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*model.GeneratedDocument, error) {
	dr.logger.Debugf("Get document by id: %s \n", id)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var doc model.GeneratedDocument
	if err := db.WithContext(ctx).Model(&model.GeneratedDocument{}).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, notFound(err, "document %s not found", id)
	}

	return &doc, nil
}

// LockByID reads the document with SELECT ... FOR UPDATE. tx must be a transaction.
func (dr DocumentRepository) LockByID(ctx context.Context, tx *gorm.DB, id string) (*model.GeneratedDocument, error) {
	dr.logger.Debugf("Lock document by id: %s \n", id)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var doc model.GeneratedDocument
	if err := db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, notFound(err, "document %s not found", id)
	}

	return &doc, nil
}

func (dr DocumentRepository) ListByRecord(ctx context.Context, tx *gorm.DB, recordID string) ([]model.GeneratedDocument, error) {
	dr.logger.Debugf("List documents of record: %s \n", recordID)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var docs []model.GeneratedDocument
	if err := db.WithContext(ctx).Model(&model.GeneratedDocument{}).
		Where("concurso_id = ?", recordID).
		Order("created_at ASC").Order("id ASC").
		Find(&docs).Error; err != nil {
		return nil, err
	}

	return docs, nil
}

func (dr DocumentRepository) ExistsOfType(ctx context.Context, tx *gorm.DB, recordID, typeKey string) (bool, error) {
	dr.logger.Debugf("Check document of type %s exists for record: %s \n", typeKey, recordID)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	if err := db.WithContext(ctx).Model(&model.GeneratedDocument{}).
		Where("concurso_id = ? AND type_key = ?", recordID, typeKey).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (dr DocumentRepository) Create(ctx context.Context, tx *gorm.DB, doc *model.GeneratedDocument) (*model.GeneratedDocument, error) {
	dr.logger.Debugf("Create document of type %s for record: %s \n", doc.TypeKey, doc.ConcursoID)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Omit(clause.Associations).Create(doc).Error; err != nil {
		return doc, err
	}

	return doc, nil
}

// Update writes every mutable column, including nil file references.
func (dr DocumentRepository) Update(ctx context.Context, tx *gorm.DB, doc *model.GeneratedDocument) error {
	dr.logger.Debugf("Update document: %s state: %s count: %d \n", doc.ID, doc.State, doc.SignatureCount)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Model(&model.GeneratedDocument{}).Where("id = ?", doc.ID).
		Updates(map[string]any{
			"state":           doc.State,
			"draft_file_ref":  doc.DraftFileRef,
			"final_file_ref":  doc.FinalFileRef,
			"signature_count": doc.SignatureCount,
			"draft_effect":    doc.DraftEffect,
			"signed_effect":   doc.SignedEffect,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("document %s not found", doc.ID)
	}

	return nil
}

func (dr DocumentRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	dr.logger.Debugf("Delete document: %s \n", id)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Where("id = ?", id).Delete(&model.GeneratedDocument{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("document %s not found", id)
	}

	return nil
}
