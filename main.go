// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/ariebrainware/cloudvault/config"
	"github.com/ariebrainware/cloudvault/endpoint"
	"github.com/ariebrainware/cloudvault/middleware"
	"github.com/ariebrainware/cloudvault/model"
	"github.com/ariebrainware/cloudvault/util"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	secret := os.Getenv("JWTSECRET")
	if secret == "" {
		log.Fatal("JWTSECRET environment variable is not set")
	}
	util.SetJWTSecret(secret)

	db, err := config.ConnectMySQL()
	if err != nil {
		log.Fatalf("Error connecting to MySQL: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Record{},
		&model.File{},
		&model.Consultation{},
		&model.Session{},
		&model.SecurityLog{},
	); err != nil {
		log.Fatalf("Error migrating schema: %v", err)
	}
	util.SetSecurityLoggerDB(db)

	// Redis is best-effort: rate limiting and session mirroring degrade
	// gracefully without it.
	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable: %v", err)
	}

	if _, err := config.ConnectMinio(); err != nil {
		log.Fatalf("Error connecting to object storage: %v", err)
	}
	if err := util.InitObjectStore(); err != nil {
		log.Fatalf("Error initializing object store: %v", err)
	}

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.Use(middleware.RateLimiter(middleware.RateLimitConfig{}))
	auth.POST("/register", endpoint.Register)
	auth.POST("/login", endpoint.Login)
	auth.DELETE("/logout", endpoint.Logout)

	records := api.Group("/records", middleware.AuthRequired())
	records.POST("/add", endpoint.AddRecord)
	records.GET("/my", endpoint.ListRecords)

	files := api.Group("/files", middleware.AuthRequired())
	files.POST("/upload", endpoint.UploadFile)
	files.GET("/my", endpoint.ListFiles)
	files.GET("/download/:fileId", endpoint.DownloadFile)
	files.DELETE("/:fileId", endpoint.DeleteFile)

	doctors := api.Group("/doctors", middleware.AuthRequired())
	doctors.GET("", endpoint.ListDoctors)
	doctors.GET("/my", endpoint.ListMyDoctors)

	consultations := api.Group("/consultations", middleware.AuthRequired())
	consultations.POST("/request/:doctorId", endpoint.RequestConsultation)
	consultations.POST("/accept/:patientId", endpoint.AcceptConsultation)
	consultations.GET("/pending", endpoint.ListPendingConsultations)

	patients := api.Group("/patients", middleware.AuthRequired())
	patients.GET("/my", endpoint.ListMyPatients)

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
