package repository

import (
	"context"
	"errors"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SignatureRepository struct {
	*baseRepository
}

func (sr SignatureRepository) Create(ctx context.Context, tx *gorm.DB, signature *model.Signature) (*model.Signature, error) {
	sr.logger.Debugf("Create signature with data: %v \n", signature)

	db := sr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Omit(clause.Associations).Create(signature).Error; err != nil {
		// idx_signature_document_signer
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return signature, apperror.AlreadySigned("signer %s already signed", signature.SignerID)
		}
		return signature, err
	}

	return signature, nil
}

func (sr SignatureRepository) Exists(ctx context.Context, tx *gorm.DB, documentID, signerID string) (bool, error) {
	sr.logger.Debugf("Check signature of %s on document: %s \n", signerID, documentID)

	db := sr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	if err := db.WithContext(ctx).Model(&model.Signature{}).
		Where("document_id = ? AND signer_id = ?", documentID, signerID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (sr SignatureRepository) ListByDocument(ctx context.Context, tx *gorm.DB, documentID string) ([]model.Signature, error) {
	sr.logger.Debugf("List signatures of document: %s \n", documentID)

	db := sr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var signatures []model.Signature
	if err := db.WithContext(ctx).Model(&model.Signature{}).
		Where("document_id = ?", documentID).
		Order("ordinal ASC").
		Find(&signatures).Error; err != nil {
		return nil, err
	}

	return signatures, nil
}

func (sr SignatureRepository) DeleteByDocument(ctx context.Context, tx *gorm.DB, documentID string) (int64, error) {
	sr.logger.Debugf("Delete signatures of document: %s \n", documentID)

	db := sr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Where("document_id = ?", documentID).Delete(&model.Signature{})
	return result.RowsAffected, result.Error
}
