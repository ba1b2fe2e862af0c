package repository

import (
	"context"

	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"gorm.io/gorm"
)

type TribunalRepository struct {
	*baseRepository
}

func (tr TribunalRepository) ListByRecord(ctx context.Context, tx *gorm.DB, recordID string) ([]model.TribunalMember, error) {
	tr.logger.Debugf("List tribunal of record: %s \n", recordID)

	db := tr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var members []model.TribunalMember
	if err := db.WithContext(ctx).Model(&model.TribunalMember{}).
		Where("concurso_id = ?", recordID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	return members, nil
}

func (tr TribunalRepository) FindMember(ctx context.Context, tx *gorm.DB, recordID, userID string) (*model.TribunalMember, error) {
	tr.logger.Debugf("Find tribunal member %s of record: %s \n", userID, recordID)

	db := tr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var member model.TribunalMember
	if err := db.WithContext(ctx).Model(&model.TribunalMember{}).
		Where("concurso_id = ? AND user_id = ?", recordID, userID).
		First(&member).Error; err != nil {
		return nil, notFound(err, "tribunal member %s not found", userID)
	}

	return &member, nil
}

// CountRequired counts the members whose signature the quorum needs.
func (tr TribunalRepository) CountRequired(ctx context.Context, tx *gorm.DB, recordID string) (int, error) {
	tr.logger.Debugf("Count required signers of record: %s \n", recordID)

	db := tr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	if err := db.WithContext(ctx).Model(&model.TribunalMember{}).
		Where("concurso_id = ? AND role <> ?", recordID, constant.TribunalAlternate).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return int(count), nil
}

type ApplicantRepository struct {
	*baseRepository
}

func (ar ApplicantRepository) ListByRecord(ctx context.Context, tx *gorm.DB, recordID string) ([]model.Applicant, error) {
	ar.logger.Debugf("List applicants of record: %s \n", recordID)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var applicants []model.Applicant
	if err := db.WithContext(ctx).Model(&model.Applicant{}).
		Where("concurso_id = ?", recordID).
		Order("surname ASC").Order("name ASC").
		Find(&applicants).Error; err != nil {
		return nil, err
	}

	return applicants, nil
}

type ScheduleRepository struct {
	*baseRepository
}

// GetByRecord returns nil without error when the record has no schedule yet.
func (sr ScheduleRepository) GetByRecord(ctx context.Context, tx *gorm.DB, recordID string) (*model.Schedule, error) {
	sr.logger.Debugf("Get schedule of record: %s \n", recordID)

	db := sr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var schedules []model.Schedule
	if err := db.WithContext(ctx).Model(&model.Schedule{}).
		Where("concurso_id = ?", recordID).
		Limit(1).
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, nil
	}

	return &schedules[0], nil
}
