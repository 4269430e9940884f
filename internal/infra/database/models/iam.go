package models

import (
	"time"
)

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:text"`
	Email        string    `json:"email" gorm:"type:text;not null;index:user_email,unique"`
	Username     string    `json:"username" gorm:"type:text;not null;index:user_username,unique"`
	PasswordHash string    `json:"-" gorm:"type:text;not null"`
	FirstName    string    `json:"first_name" gorm:"type:text"`
	LastName     string    `json:"last_name" gorm:"type:text"`
	IsSuperuser  bool      `json:"is_superuser" gorm:"type:boolean;not null;default:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"type:timestamp with time zone;not null"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"type:timestamp with time zone;not null"`
}

type AuthToken struct {
	Key       string    `json:"key" gorm:"primaryKey;type:text"`
	UserID    string    `json:"user_id" gorm:"type:text;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"type:timestamp with time zone;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"type:timestamp with time zone;not null"`
}
