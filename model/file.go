package model

import "gorm.io/gorm"

// File describes metadata for an uploaded object. The storage key is the
// only link to the byte content held by the external object store, so the
// row and the object must be created and deleted together.
type File struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"column:user_id;not null;index" example:"1"`
	FileName    string `json:"file_name" gorm:"column:file_name;type:varchar(255);not null" example:"bloodwork.pdf"`
	StorageKey  string `json:"-" gorm:"column:storage_key;type:varchar(255);uniqueIndex;not null"`
	Size        int64  `json:"size" gorm:"column:size" example:"102400"`
	ContentType string `json:"content_type" gorm:"column:content_type;type:varchar(128)" example:"application/pdf"`
}
