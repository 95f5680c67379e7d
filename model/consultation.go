package model

import (
	"fmt"

	"gorm.io/gorm"
)

// Consultation statuses.
const (
	ConsultationPending  = "pending"
	ConsultationAccepted = "accepted"
)

// Consultation links a patient to a doctor. A pending row is a consultation
// request awaiting the doctor's acceptance; an accepted row is an active
// doctor-patient relationship. One row per patient/doctor pair.
type Consultation struct {
	gorm.Model
	PatientID uint   `json:"patient_id" gorm:"column:patient_id;not null;uniqueIndex:idx_patient_doctor" example:"1"`
	DoctorID  uint   `json:"doctor_id" gorm:"column:doctor_id;not null;uniqueIndex:idx_patient_doctor" example:"2"`
	Status    string `json:"status" gorm:"column:status;type:varchar(16);not null;default:pending" example:"pending"`
}

// BeforeSave keeps the status within the known set.
func (cons *Consultation) BeforeSave(tx *gorm.DB) error {
	if cons.Status != ConsultationPending && cons.Status != ConsultationAccepted {
		return fmt.Errorf("invalid consultation status: %s", cons.Status)
	}
	if cons.PatientID == 0 || cons.DoctorID == 0 {
		return fmt.Errorf("consultation requires both patient and doctor")
	}
	return nil
}
