package endpoint

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ariebrainware/cloudvault/config"
	"github.com/ariebrainware/cloudvault/model"
	"github.com/ariebrainware/cloudvault/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MIME type prefixes accepted for upload.
var allowedContentTypes = []string{
	"image/",
	"application/pdf",
	"text/",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml",
}

func getObjectStoreOrRespond(c *gin.Context) (util.ObjectStore, bool) {
	store := util.GetObjectStore()
	if store == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "File storage not available", Err: fmt.Errorf("object store is nil")})
		return nil, false
	}
	return store, true
}

// UploadFile godoc
// @Summary      Upload a file
// @Description  Stream a multipart file to object storage and record its metadata
// @Tags         Files
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "File to upload"
// @Success      200 {object} map[string]interface{} "File uploaded"
// @Failure      400 {object} map[string]string "Missing, oversized, or unsupported file"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Failure      500 {object} map[string]string "Storage error"
// @Router       /api/files/upload [post]
func UploadFile(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	store, ok := getObjectStoreOrRespond(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "No file provided", Err: err})
		return
	}

	cfg := config.LoadConfig()
	if fileHeader.Size > cfg.MaxUploadSize {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "File size limit exceeded",
			Err: fmt.Errorf("file size %d exceeds limit %d", fileHeader.Size, cfg.MaxUploadSize),
		})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !util.HasPrefixIn(contentType, allowedContentTypes) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "File type not supported",
			Err: fmt.Errorf("unsupported content type %q", contentType),
		})
		return
	}

	// Stream the upload through a temp file rather than buffering in memory.
	tmpPath := filepath.Join(os.TempDir(), uuid.NewString())
	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to upload file", Err: err})
		return
	}
	defer os.Remove(tmpPath)

	storageKey := fmt.Sprintf("%s-%s", uuid.NewString(), filepath.Base(fileHeader.Filename))
	if err := store.PutFile(c.Request.Context(), storageKey, tmpPath, contentType); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to upload file", Err: err})
		return
	}

	file := model.File{
		UserID:      userID,
		FileName:    fileHeader.Filename,
		StorageKey:  storageKey,
		Size:        fileHeader.Size,
		ContentType: contentType,
	}
	if err := db.Create(&file).Error; err != nil {
		// The object was written but the metadata row failed. Remove the
		// object so it cannot leak without a record pointing at it.
		if rmErr := store.Remove(c.Request.Context(), storageKey); rmErr != nil {
			util.LogSecurityEvent(util.SecurityEvent{
				EventType: util.EventSuspiciousActivity,
				UserID:    fmt.Sprintf("%d", userID),
				IP:        c.ClientIP(),
				Message:   fmt.Sprintf("Orphaned object %s: metadata insert and cleanup both failed: %v", storageKey, rmErr),
			})
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to upload file", Err: err})
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventFileUploaded,
		UserID:    fmt.Sprintf("%d", userID),
		IP:        c.ClientIP(),
		Message:   fmt.Sprintf("Uploaded %s (%d bytes)", file.FileName, file.Size),
	})

	c.JSON(http.StatusOK, gin.H{"message": "File uploaded", "file": file})
}

// ListFiles godoc
// @Summary      List my files
// @Description  Get the authenticated user's file records, newest first
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.File "Files retrieved"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Router       /api/files/my [get]
func ListFiles(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}

	var files []model.File
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&files).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve files", Err: err})
		return
	}

	c.JSON(http.StatusOK, files)
}

// loadOwnedFile fetches a file record and enforces ownership. Absent and
// not-owned are indistinguishable to the caller.
func loadOwnedFile(db *gorm.DB, fileID string, userID uint) (model.File, error) {
	id, err := strconv.ParseUint(fileID, 10, 64)
	if err != nil {
		return model.File{}, gorm.ErrRecordNotFound
	}
	var file model.File
	err = db.Where("id = ? AND user_id = ?", id, userID).First(&file).Error
	return file, err
}

// DownloadFile godoc
// @Summary      Get a download handle
// @Description  Produce a time-limited pre-signed URL for an owned file
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Param        fileId path int true "File ID"
// @Success      200 {object} map[string]interface{} "Download URL"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Failure      404 {object} map[string]string "File not found"
// @Router       /api/files/download/{fileId} [get]
func DownloadFile(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	store, ok := getObjectStoreOrRespond(c)
	if !ok {
		return
	}

	file, err := loadOwnedFile(db, c.Param("fileId"), userID)
	if err == gorm.ErrRecordNotFound {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "File not found", Err: err})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve file", Err: err})
		return
	}

	expiry := config.LoadConfig().PresignTTL
	downloadURL, err := store.PresignedGetURL(c.Request.Context(), file.StorageKey, file.FileName, expiry)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to generate download URL", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"downloadUrl": downloadURL,
		"fileName":    file.FileName,
		"expiresIn":   int(expiry.Seconds()),
	})
}

// DeleteFile godoc
// @Summary      Delete a file
// @Description  Delete the storage object and the metadata record together
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Param        fileId path int true "File ID"
// @Success      200 {object} map[string]string "File deleted"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Failure      404 {object} map[string]string "File not found"
// @Failure      500 {object} map[string]string "Storage error"
// @Router       /api/files/{fileId} [delete]
func DeleteFile(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	store, ok := getObjectStoreOrRespond(c)
	if !ok {
		return
	}

	file, err := loadOwnedFile(db, c.Param("fileId"), userID)
	if err == gorm.ErrRecordNotFound {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "File not found", Err: err})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve file", Err: err})
		return
	}

	// Object first, then the row. If the object removal fails the row stays,
	// so the file remains visible and deletable rather than orphaned.
	if err := store.Remove(c.Request.Context(), file.StorageKey); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete file", Err: err})
		return
	}
	if err := db.Delete(&file).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete file", Err: err})
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventFileDeleted,
		UserID:    fmt.Sprintf("%d", userID),
		IP:        c.ClientIP(),
		Message:   fmt.Sprintf("Deleted %s", file.FileName),
	})

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
