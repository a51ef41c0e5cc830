package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rohits-web03/zipdrop/internal/models"
	"gorm.io/gorm"
)

// summaryColumns skips the archive blob when only metadata is needed.
var summaryColumns = []string{"id", "user_id", "filename", "upload_time", "status"}

var ErrUnknownOwner = errors.New("upload owner does not exist")

type UploadRecordRepository struct {
	db *gorm.DB
}

func NewUploadRecordRepository(db *gorm.DB) *UploadRecordRepository {
	return &UploadRecordRepository{db: db}
}

// Create stamps the record with the server clock and inserts it.
func (r *UploadRecordRepository) Create(ctx context.Context, record *models.UploadRecord) error {
	if record.UploadTime.IsZero() {
		record.UploadTime = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrUnknownOwner
		}
		return fmt.Errorf("insert upload record: %w", err)
	}
	return nil
}

// ListByUser returns the user's records in insertion order, without archive bytes.
func (r *UploadRecordRepository) ListByUser(ctx context.Context, userID uint) ([]models.UploadRecord, error) {
	var records []models.UploadRecord
	err := r.db.WithContext(ctx).
		Select(summaryColumns).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list upload records: %w", err)
	}
	return records, nil
}

func (r *UploadRecordRepository) FindByID(ctx context.Context, id uint) (*models.UploadRecord, error) {
	var record models.UploadRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	switch {
	case err == nil:
		return &record, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrRecordNotFound
	default:
		return nil, fmt.Errorf("query upload record: %w", err)
	}
}
