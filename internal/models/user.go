package models

import (
	"time"
)

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string         `json:"username" gorm:"size:45;uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"size:100;not null"`
	CreatedAt time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	Uploads   []UploadRecord `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
