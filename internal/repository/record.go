package repository

import (
	"context"

	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecordRepository struct {
	*baseRepository
}

func (rr RecordRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*model.Concurso, error) {
	rr.logger.Debugf("Get record by id: %s \n", id)

	db := rr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var record model.Concurso
	if err := db.WithContext(ctx).Model(&model.Concurso{}).Preload("Department").
		Where("id = ?", id).First(&record).Error; err != nil {
		return nil, notFound(err, "record %s not found", id)
	}

	return &record, nil
}

// LockByID reads the record with SELECT ... FOR UPDATE. tx must be a transaction.
func (rr RecordRepository) LockByID(ctx context.Context, tx *gorm.DB, id string) (*model.Concurso, error) {
	rr.logger.Debugf("Lock record by id: %s \n", id)

	db := rr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var record model.Concurso
	if err := db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&record).Error; err != nil {
		return nil, notFound(err, "record %s not found", id)
	}

	return &record, nil
}

// Save writes the record columns only, never its department.
func (rr RecordRepository) Save(ctx context.Context, tx *gorm.DB, record *model.Concurso) error {
	rr.logger.Debugf("Save record: %s state: %s substates: %v \n", record.ID, record.State, record.Substates)

	db := rr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Model(&model.Concurso{}).Where("id = ?", record.ID).
		Updates(map[string]any{
			"state":       record.State,
			"substates":   record.Substates,
			"folder_id":   record.FolderID,
			"folder_name": record.FolderName,
		}).Error
}

func (rr RecordRepository) Create(ctx context.Context, tx *gorm.DB, record *model.Concurso) (*model.Concurso, error) {
	rr.logger.Debugf("Create record with data: %v \n", record)

	db := rr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
		return record, err
	}

	return record, nil
}
