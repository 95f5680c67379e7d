package endpoint

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariebrainware/cloudvault/middleware"
	"github.com/ariebrainware/cloudvault/model"
	"github.com/ariebrainware/cloudvault/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// endpointTestModels is the standard set of models migrated for endpoint tests.
var endpointTestModels = []interface{}{
	&model.User{},
	&model.Record{},
	&model.File{},
	&model.Consultation{},
	&model.Session{},
	&model.SecurityLog{},
}

// setupEndpointTest returns a Gin engine and an in-memory database with all
// routes of the API registered. The JWT secret is fixed for the test.
func setupEndpointTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("APPENV", "test")
	t.Setenv("JWTSECRET", "test-secret-123")
	util.SetJWTSecret("test-secret-123")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := db.AutoMigrate(endpointTestModels...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	for _, m := range endpointTestModels {
		db.Unscoped().Where("1 = 1").Delete(m)
	}
	t.Cleanup(func() {
		for _, m := range endpointTestModels {
			_ = db.Migrator().DropTable(m)
		}
	})

	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", Register)
	auth.POST("/login", Login)
	auth.DELETE("/logout", Logout)

	records := api.Group("/records", middleware.AuthRequired())
	records.POST("/add", AddRecord)
	records.GET("/my", ListRecords)

	files := api.Group("/files", middleware.AuthRequired())
	files.POST("/upload", UploadFile)
	files.GET("/my", ListFiles)
	files.GET("/download/:fileId", DownloadFile)
	files.DELETE("/:fileId", DeleteFile)

	doctors := api.Group("/doctors", middleware.AuthRequired())
	doctors.GET("", ListDoctors)
	doctors.GET("/my", ListMyDoctors)

	consultations := api.Group("/consultations", middleware.AuthRequired())
	consultations.POST("/request/:doctorId", RequestConsultation)
	consultations.POST("/accept/:patientId", AcceptConsultation)
	consultations.GET("/pending", ListPendingConsultations)

	patients := api.Group("/patients", middleware.AuthRequired())
	patients.GET("/my", ListMyPatients)

	return r, db
}

// createTestUser inserts a user directly and returns it with a valid token.
func createTestUser(t *testing.T, db *gorm.DB, name, email, role, specialty string) (model.User, string) {
	t.Helper()

	salt, err := util.GenerateSalt()
	assert.NoError(t, err)
	hash, err := util.HashPasswordArgon2("Str0ng!pass", salt)
	assert.NoError(t, err)

	user, err := model.NewUser(model.NewUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         role,
		Specialty:    specialty,
	})
	assert.NoError(t, err)
	assert.NoError(t, db.Create(user).Error)

	token, err := createJWTToken(user, time.Hour)
	assert.NoError(t, err)
	return *user, token
}

// doJSONRequest performs a JSON request against the test router.
func doJSONRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var list []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	return list
}
