package repository

import (
	"context"
	"errors"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"gorm.io/gorm"
)

type TemplateConfigRepository struct {
	*baseRepository
}

func (tcr TemplateConfigRepository) GetTemplateConfig(ctx context.Context, typeKey string) (*model.TemplateConfig, error) {
	return tcr.GetByTypeKey(ctx, nil, typeKey)
}

func (tcr TemplateConfigRepository) ListTemplateConfigs(ctx context.Context, activeOnly bool) ([]model.TemplateConfig, error) {
	return tcr.List(ctx, nil, activeOnly)
}

func (tcr TemplateConfigRepository) GetByTypeKey(ctx context.Context, tx *gorm.DB, typeKey string) (*model.TemplateConfig, error) {
	tcr.logger.Debugf("Get template config by type key: %s \n", typeKey)

	db := tcr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var cfg model.TemplateConfig
	if err := db.WithContext(ctx).Model(&model.TemplateConfig{}).
		Where("type_key = ?", typeKey).First(&cfg).Error; err != nil {
		return nil, notFound(err, "template %s not found", typeKey)
	}

	return &cfg, nil
}

func (tcr TemplateConfigRepository) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]model.TemplateConfig, error) {
	tcr.logger.Debugf("List template configs, active only: %v \n", activeOnly)

	db := tcr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.TemplateConfig{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var cfgs []model.TemplateConfig
	if err := query.Order("type_key ASC").Find(&cfgs).Error; err != nil {
		return nil, err
	}

	return cfgs, nil
}

// Upsert inserts cfg or updates the row with the same type key. The key itself is never rewritten.
func (tcr TemplateConfigRepository) Upsert(ctx context.Context, tx *gorm.DB, cfg *model.TemplateConfig) (bool, error) {
	tcr.logger.Debugf("Upsert template config: %s \n", cfg.TypeKey)

	created := false
	err := tcr.withTx(tcr.getDB(tx), func(tx *gorm.DB) error {
		existing, err := tcr.GetByTypeKey(ctx, tx, cfg.TypeKey)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		if existing == nil {
			created = true
			return tx.WithContext(ctx).Create(cfg).Error
		}

		cfg.ID = existing.ID
		return tx.WithContext(ctx).Model(&model.TemplateConfig{}).Where("id = ?", existing.ID).
			Select("*").Omit("id", "type_key", "created_at").
			Updates(cfg).Error
	})

	return created, err
}
