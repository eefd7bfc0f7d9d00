package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID          string         `gorm:"primarykey;type:varchar(64)" json:"id" bson:"_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name" bson:"name"`
	Description string         `gorm:"type:text" json:"description" bson:"description"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" bson:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-" bson:"-"`
}
