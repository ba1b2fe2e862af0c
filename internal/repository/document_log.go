package repository

import (
	"context"

	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"gorm.io/gorm"
)

type DocumentLogRepository struct {
	*baseRepository
}

func (dlr DocumentLogRepository) Create(ctx context.Context, tx *gorm.DB, log *model.DocumentLog) (*model.DocumentLog, error) {
	dlr.logger.Debugf("Create document log with data: %v \n", log)

	db := dlr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.DocumentLog{}).Create(log).Error; err != nil {
		return log, err
	}

	return log, nil
}

func (dlr DocumentLogRepository) ListByRecord(ctx context.Context, tx *gorm.DB, recordID string, page, pageSize uint) ([]model.DocumentLog, int64, error) {
	dlr.logger.Debugf("List document logs of record: %s page: %d \n", recordID, page)

	db := dlr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = constant.DefaultPageSize
	}

	var total int64
	if err := db.WithContext(ctx).Model(&model.DocumentLog{}).
		Where("concurso_id = ?", recordID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.DocumentLog
	if err := db.WithContext(ctx).Model(&model.DocumentLog{}).
		Where("concurso_id = ?", recordID).
		Order("created_at DESC").
		Offset(int((page - 1) * pageSize)).Limit(int(pageSize)).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
