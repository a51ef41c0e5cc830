package models

import (
	"time"
)

// UploadStatus is the decided outcome of an upload attempt.
type UploadStatus string

const (
	UploadSuccess UploadStatus = "Success"
	UploadFail    UploadStatus = "Fail"
)

func (s UploadStatus) Valid() bool {
	return s == UploadSuccess || s == UploadFail
}

type UploadRecord struct {
	ID         uint         `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     uint         `json:"userId" gorm:"index;not null"` // foreign key
	Filename   string       `json:"filename" gorm:"type:text;not null"`
	UploadTime time.Time    `json:"upload_time" gorm:"not null"`
	Status     UploadStatus `json:"status" gorm:"size:16;not null"`
	Archive    []byte       `json:"-"` // nil for failed attempts
}

// HasArchive reports whether the raw bytes were kept for this attempt.
func (r UploadRecord) HasArchive() bool {
	return len(r.Archive) > 0
}
