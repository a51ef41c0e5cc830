package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rohits-web03/zipdrop/internal/archive"
	"github.com/rohits-web03/zipdrop/internal/models"
	"github.com/rohits-web03/zipdrop/internal/repositories"
)

type UploadStore interface {
	Create(ctx context.Context, record *models.UploadRecord) error
	ListByUser(ctx context.Context, userID uint) ([]models.UploadRecord, error)
	FindByID(ctx context.Context, id uint) (*models.UploadRecord, error)
}

// UploadService validates submitted archives and keeps a record of every
// decided attempt. Rejected archives are recorded as Fail without their bytes.
type UploadService struct {
	uploads UploadStore
	users   *UserService
	logger  *slog.Logger
}

func NewUploadService(uploads UploadStore, users *UserService, logger *slog.Logger) *UploadService {
	return &UploadService{uploads: uploads, users: users, logger: logger}
}

// Upload validates data as filename for owner. On a malformed archive the
// returned record is the persisted Fail record and the error wraps
// ErrMalformedUpload. A wrong extension is rejected before anything is parsed
// or stored.
func (s *UploadService) Upload(ctx context.Context, owner *models.User, filename string, data []byte) (*models.UploadRecord, error) {
	if !archive.HasZipExtension(filename) {
		return nil, archive.ErrNotZip
	}

	validationErr := archive.Inspect(filename, data)
	record := &models.UploadRecord{
		UserID:   owner.ID,
		Filename: filename,
		Status:   models.UploadSuccess,
		Archive:  data,
	}
	if validationErr != nil {
		record.Status = models.UploadFail
		record.Archive = nil
	}

	if err := s.uploads.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "upload recorded",
		"record_id", record.ID,
		"user", owner.Username,
		"filename", filename,
		"status", record.Status,
	)
	if validationErr != nil {
		return record, validationErr
	}
	return record, nil
}

// ListRecords returns target's records on behalf of caller. An empty target
// means the caller's own records.
func (s *UploadService) ListRecords(ctx context.Context, caller *models.User, target string) ([]models.UploadRecord, error) {
	if target == "" {
		target = caller.Username
	}
	if target != caller.Username {
		return nil, ErrAuthorizationDenied
	}

	user, err := s.users.FindByUsername(ctx, target)
	if err != nil {
		return nil, err
	}

	records, err := s.uploads.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

// Archive returns the stored bytes of one of caller's successful uploads.
// Records owned by someone else are reported as not found.
func (s *UploadService) Archive(ctx context.Context, caller *models.User, id uint) (*models.UploadRecord, error) {
	record, err := s.uploads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if record.UserID != caller.ID || !record.HasArchive() {
		return nil, ErrNotFound
	}
	return record, nil
}
