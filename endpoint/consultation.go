package endpoint

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ariebrainware/cloudvault/middleware"
	"github.com/ariebrainware/cloudvault/model"
	"github.com/ariebrainware/cloudvault/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// doctorSummary is the public view of a doctor account.
type doctorSummary struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// patientSummary is the doctor-facing view of a patient account.
type patientSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func requireRoleOrRespond(c *gin.Context, want string) bool {
	role, ok := middleware.GetUserRole(c)
	if !ok || role != want {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: fmt.Sprintf("This action requires the %s role", want),
			Err: fmt.Errorf("role %q required", want),
		})
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "User not found", Err: fmt.Errorf("invalid %s", name)})
		return 0, false
	}
	return uint(id), true
}

// ListDoctors godoc
// @Summary      List doctors
// @Description  Get all registered doctors with their specialties
// @Tags         Consultations
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} doctorSummary "Doctors retrieved"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Router       /api/doctors [get]
func ListDoctors(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctors []doctorSummary
	err := db.Model(&model.User{}).
		Select("id, name, specialty").
		Where("role = ?", model.RoleDoctor).
		Order("name ASC").
		Find(&doctors).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve doctors", Err: err})
		return
	}

	c.JSON(http.StatusOK, doctors)
}

// RequestConsultation godoc
// @Summary      Request a consultation
// @Description  Patient asks a doctor for a consultation; the doctor must accept it
// @Tags         Consultations
// @Produce      json
// @Security     BearerAuth
// @Param        doctorId path int true "Doctor ID"
// @Success      200 {object} map[string]string "Request sent"
// @Failure      400 {object} map[string]string "Already requested or target is not a doctor"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Failure      404 {object} map[string]string "Doctor not found"
// @Router       /api/consultations/request/{doctorId} [post]
func RequestConsultation(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	patientID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	if !requireRoleOrRespond(c, model.RolePatient) {
		return
	}
	doctorID, ok := parseIDParam(c, "doctorId")
	if !ok {
		return
	}

	doctor, ok := loadUserOrRespond(c, db, doctorID)
	if !ok {
		return
	}
	if !doctor.IsDoctor() {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Consultations can only be requested from doctors",
			Err: fmt.Errorf("user %d is not a doctor", doctorID),
		})
		return
	}

	var existing model.Consultation
	err := db.Where("patient_id = ? AND doctor_id = ?", patientID, doctorID).First(&existing).Error
	if err == nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "A consultation with this doctor already exists",
			Err: fmt.Errorf("duplicate consultation"),
		})
		return
	}
	if err != gorm.ErrRecordNotFound {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to request consultation", Err: err})
		return
	}

	consultation := model.Consultation{
		PatientID: patientID,
		DoctorID:  doctorID,
		Status:    model.ConsultationPending,
	}
	if err := db.Create(&consultation).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to request consultation", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Consultation requested"})
}

// AcceptConsultation godoc
// @Summary      Accept a consultation request
// @Description  Doctor accepts a patient's pending consultation request
// @Tags         Consultations
// @Produce      json
// @Security     BearerAuth
// @Param        patientId path int true "Patient ID"
// @Success      200 {object} map[string]string "Request accepted"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Failure      404 {object} map[string]string "No pending request from this patient"
// @Router       /api/consultations/accept/{patientId} [post]
func AcceptConsultation(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	doctorID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	if !requireRoleOrRespond(c, model.RoleDoctor) {
		return
	}
	patientID, ok := parseIDParam(c, "patientId")
	if !ok {
		return
	}

	var consultation model.Consultation
	err := db.Where("patient_id = ? AND doctor_id = ? AND status = ?",
		patientID, doctorID, model.ConsultationPending).First(&consultation).Error
	if err == gorm.ErrRecordNotFound {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "No pending consultation request from this patient", Err: err})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to accept consultation", Err: err})
		return
	}

	consultation.Status = model.ConsultationAccepted
	if err := db.Save(&consultation).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to accept consultation", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Consultation accepted"})
}

// ListPendingConsultations godoc
// @Summary      List pending consultation requests
// @Description  Doctor's view of patients waiting for acceptance
// @Tags         Consultations
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} patientSummary "Pending patients"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Router       /api/consultations/pending [get]
func ListPendingConsultations(c *gin.Context) {
	listConsultationPeers(c, model.RoleDoctor, model.ConsultationPending)
}

// ListMyPatients godoc
// @Summary      List my patients
// @Description  Doctor's accepted patients
// @Tags         Consultations
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} patientSummary "Patients retrieved"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Router       /api/patients/my [get]
func ListMyPatients(c *gin.Context) {
	listConsultationPeers(c, model.RoleDoctor, model.ConsultationAccepted)
}

// ListMyDoctors godoc
// @Summary      List my doctors
// @Description  Patient's accepted doctors
// @Tags         Consultations
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} doctorSummary "Doctors retrieved"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Router       /api/doctors/my [get]
func ListMyDoctors(c *gin.Context) {
	listConsultationPeers(c, model.RolePatient, model.ConsultationAccepted)
}

// listConsultationPeers returns the users on the other side of the caller's
// consultations with the given status. Callers with the doctor role see
// patients; callers with the patient role see doctors.
func listConsultationPeers(c *gin.Context, callerRole, status string) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	if !requireRoleOrRespond(c, callerRole) {
		return
	}

	if callerRole == model.RoleDoctor {
		var patients []patientSummary
		err := db.Model(&model.User{}).
			Select("users.id, users.name, users.email").
			Joins("JOIN consultations ON consultations.patient_id = users.id").
			Where("consultations.doctor_id = ? AND consultations.status = ? AND consultations.deleted_at IS NULL", userID, status).
			Order("users.name ASC").
			Find(&patients).Error
		if err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve consultations", Err: err})
			return
		}
		c.JSON(http.StatusOK, patients)
		return
	}

	var doctors []doctorSummary
	err := db.Model(&model.User{}).
		Select("users.id, users.name, users.specialty").
		Joins("JOIN consultations ON consultations.doctor_id = users.id").
		Where("consultations.patient_id = ? AND consultations.status = ? AND consultations.deleted_at IS NULL", userID, status).
		Order("users.name ASC").
		Find(&doctors).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve consultations", Err: err})
		return
	}
	c.JSON(http.StatusOK, doctors)
}
