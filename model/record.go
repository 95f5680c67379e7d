package model

import (
	"fmt"

	"gorm.io/gorm"
)

// Record represents a single vitals reading
// @Description Blood pressure, sugar, and heart rate at a point in time
type Record struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"column:user_id;not null;index" example:"1"`
	BP        string `json:"bp" gorm:"column:bp;type:varchar(8);not null" example:"120/80"`
	Sugar     string `json:"sugar" gorm:"column:sugar;type:varchar(8);not null" example:"95"`
	HeartRate string `json:"heart_rate" gorm:"column:heart_rate;type:varchar(8);not null" example:"72"`
}

// BeforeCreate enforces the vitals ranges at the storage boundary.
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.UserID == 0 {
		return fmt.Errorf("record must belong to a user")
	}
	if v := ValidateBloodPressure(r.BP); !v.Valid {
		return fmt.Errorf("%s", v.Message)
	}
	if v := ValidateSugar(r.Sugar); !v.Valid {
		return fmt.Errorf("%s", v.Message)
	}
	if v := ValidateHeartRate(r.HeartRate); !v.Valid {
		return fmt.Errorf("%s", v.Message)
	}
	return nil
}

// BeforeUpdate rejects mutation: vitals records are immutable once written.
func (r *Record) BeforeUpdate(tx *gorm.DB) error {
	return fmt.Errorf("vitals records are immutable")
}
