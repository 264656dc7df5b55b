package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apflow/backend/internal/domain/intake"
	"github.com/apflow/backend/internal/domain/shared"
)

// GormIntakeRecordRepository implements IntakeRecordRepository using GORM
type GormIntakeRecordRepository struct {
	db *gorm.DB
}

var _ intake.IntakeRecordRepository = (*GormIntakeRecordRepository)(nil)

// NewGormIntakeRecordRepository creates a new GormIntakeRecordRepository
func NewGormIntakeRecordRepository(db *gorm.DB) *GormIntakeRecordRepository {
	return &GormIntakeRecordRepository{db: db}
}

// Save creates or updates an audit row
func (r *GormIntakeRecordRepository) Save(ctx context.Context, record *intake.IntakeRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// FindByID finds an audit row by its ID
func (r *GormIntakeRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*intake.IntakeRecord, error) {
	var record intake.IntakeRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindAll lists audit rows newest first, paginated
func (r *GormIntakeRecordRepository) FindAll(ctx context.Context, page, pageSize int) ([]intake.IntakeRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&intake.IntakeRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []intake.IntakeRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

var _ intake.NotificationRepository = (*GormNotificationRepository)(nil)

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, notification *intake.ReviewNotification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

// FindAll lists notifications newest first, paginated
func (r *GormNotificationRepository) FindAll(ctx context.Context, page, pageSize int) ([]intake.ReviewNotification, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&intake.ReviewNotification{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []intake.ReviewNotification
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// FindUnacknowledged lists notifications still awaiting review
func (r *GormNotificationRepository) FindUnacknowledged(ctx context.Context) ([]intake.ReviewNotification, error) {
	var notifications []intake.ReviewNotification
	if err := r.db.WithContext(ctx).
		Where("acknowledged = ?", false).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}
