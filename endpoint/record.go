package endpoint

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ariebrainware/cloudvault/model"
	"github.com/ariebrainware/cloudvault/util"
	"github.com/gin-gonic/gin"
)

type addRecordRequest struct {
	BP        string `json:"bp" example:"120/80"`
	Sugar     string `json:"sugar" example:"95"`
	HeartRate string `json:"heartRate" example:"72"`
}

// AddRecord godoc
// @Summary      Add a vitals record
// @Description  Record blood pressure, sugar, and heart rate for the authenticated user
// @Tags         Records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body addRecordRequest true "Vitals reading"
// @Success      200 {object} map[string]interface{} "Vitals added"
// @Failure      400 {object} map[string]string "Invalid vitals"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Router       /api/records/add [post]
func AddRecord(c *gin.Context) {
	var req addRecordRequest
	if !bindJSONOrRespond(c, &req, "All vitals (blood pressure, sugar, heart rate) are required") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}

	bp := strings.TrimSpace(req.BP)
	sugar := strings.TrimSpace(req.Sugar)
	heartRate := strings.TrimSpace(req.HeartRate)

	if bp == "" || sugar == "" || heartRate == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "All vitals (blood pressure, sugar, heart rate) are required",
			Err: fmt.Errorf("missing vitals"),
		})
		return
	}

	// Client-side validation is advisory only; every reading is re-checked here.
	for _, v := range []model.Validation{
		model.ValidateBloodPressure(bp),
		model.ValidateSugar(sugar),
		model.ValidateHeartRate(heartRate),
	} {
		if !v.Valid {
			util.CallUserError(c, util.APIErrorParams{Msg: v.Message, Err: fmt.Errorf("invalid vitals")})
			return
		}
	}

	record := model.Record{
		UserID:    userID,
		BP:        bp,
		Sugar:     sugar,
		HeartRate: heartRate,
	}
	if err := db.Create(&record).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to add vitals. Please try again.", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vitals added successfully", "record": record})
}

// ListRecords godoc
// @Summary      List my vitals records
// @Description  Get the authenticated user's vitals records, newest first
// @Tags         Records
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.Record "Records retrieved"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Router       /api/records/my [get]
func ListRecords(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}

	var records []model.Record
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&records).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve records", Err: err})
		return
	}

	c.JSON(http.StatusOK, records)
}
