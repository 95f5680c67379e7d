package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ariebrainware/cloudvault/config"
	"github.com/ariebrainware/cloudvault/model"
	"github.com/ariebrainware/cloudvault/util"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name      string `json:"name" binding:"required" example:"John Doe"`
	Email     string `json:"email" binding:"required" example:"john@example.com"`
	Password  string `json:"password" binding:"required" example:"Str0ng!pass"`
	Role      string `json:"role" binding:"required" example:"patient"`
	Specialty string `json:"specialty" example:"Cardiology"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"john@example.com"`
	Password string `json:"password" binding:"required" example:"Str0ng!pass"`
}

type LoginResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Role      string `json:"role" example:"patient"`
	Name      string `json:"name" example:"John Doe"`
	Specialty string `json:"specialty,omitempty" example:"Cardiology"`
}

// Register godoc
// @Summary      Register a new account
// @Description  Create a patient or doctor account
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      201 {object} map[string]string "User registered"
// @Failure      400 {object} map[string]string "Invalid input or email already used"
// @Failure      500 {object} map[string]string "Server error"
// @Router       /api/auth/register [post]
func Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSONOrRespond(c, &req, "All fields are required.") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	if !validateRegistration(c, req) {
		return
	}

	email := model.Sanitize(strings.ToLower(req.Email))
	if !ensureEmailAvailable(c, db, email) {
		return
	}

	hashedPassword, salt, ok := hashPasswordForSignup(c, req.Password)
	if !ok {
		return
	}

	newUser, err := model.NewUser(model.NewUserParams{
		Name:         model.Sanitize(req.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		PasswordSalt: salt,
		Role:         req.Role,
		Specialty:    model.Sanitize(req.Specialty),
	})
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: err.Error(), Err: err})
		return
	}

	if err := db.Create(newUser).Error; err != nil {
		if isDuplicateKeyError(err) {
			util.CallUserError(c, util.APIErrorParams{Msg: "Email already used. Please use a different email.", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Registration failed due to server error.", Err: err})
		return
	}

	ci := getClientInfo(c)
	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventSignupSuccess,
		UserID:    fmt.Sprintf("%d", newUser.ID),
		Email:     newUser.Email,
		IP:        ci.IP,
		UserAgent: ci.Agent,
		Message:   "User registered successfully",
	})

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func validateRegistration(c *gin.Context, req RegisterRequest) bool {
	if !model.ValidateName(req.Name) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Name must be at least 2 characters and contain only letters and spaces.",
			Err: fmt.Errorf("invalid name"),
		})
		return false
	}
	if !model.ValidateEmail(req.Email) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Please provide a valid email address.",
			Err: fmt.Errorf("invalid email"),
		})
		return false
	}
	if missing := model.ValidatePassword(req.Password); len(missing) > 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Password must have " + strings.Join(missing, ", ") + ".",
			Err: fmt.Errorf("weak password"),
		})
		return false
	}
	if !util.Contains(req.Role, []string{model.RolePatient, model.RoleDoctor}) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Role must be either 'patient' or 'doctor'.",
			Err: fmt.Errorf("invalid role"),
		})
		return false
	}
	if req.Role == model.RoleDoctor && len(strings.TrimSpace(req.Specialty)) < 2 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Specialty is required for doctors and must be at least 2 characters.",
			Err: fmt.Errorf("missing specialty"),
		})
		return false
	}
	return true
}

func ensureEmailAvailable(c *gin.Context, db *gorm.DB, email string) bool {
	var existingUser model.User
	err := db.First(&existingUser, "email = ?", email).Error
	if err != gorm.ErrRecordNotFound {
		if err == nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "Email already used. Please use a different email.", Err: fmt.Errorf("email already exists")})
			return false
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Registration failed due to server error.", Err: err})
		return false
	}
	return true
}

// isDuplicateKeyError matches the unique-index violation raised when two
// registrations race past the availability pre-check.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

func hashPasswordForSignup(c *gin.Context, plain string) (string, string, bool) {
	salt, err := util.GenerateSalt()
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Registration failed due to server error.", Err: err})
		return "", "", false
	}
	hashedPassword, err := util.HashPasswordArgon2(plain, salt)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Registration failed due to server error.", Err: err})
		return "", "", false
	}
	return hashedPassword, salt, true
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with email and password, returns a bearer token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} LoginResponse "Login successful"
// @Failure      400 {object} map[string]string "Invalid request payload or locked account"
// @Failure      401 {object} map[string]string "Invalid credentials"
// @Router       /api/auth/login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Email and password are required.") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	ci := getClientInfo(c)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user model.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		util.LogLoginFailure(email, ci.IP, ci.Agent, "user not found")
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Invalid credentials", Err: fmt.Errorf("user not found")})
		return
	}
	if err != nil {
		util.LogLoginFailure(email, ci.IP, ci.Agent, "database error")
		util.CallServerError(c, util.APIErrorParams{Msg: "Login failed due to server error.", Err: err})
		return
	}

	if locked, expiry := isAccountLocked(&user); locked {
		util.LogLoginFailure(email, ci.IP, ci.Agent, "account locked")
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Account is locked until %s due to multiple failed login attempts", expiry.Format(time.RFC3339)),
			Err: fmt.Errorf("account locked"),
		})
		return
	}

	match, err := util.VerifyPassword(req.Password, user.Password, user.PasswordSalt)
	if err != nil {
		util.LogLoginFailure(email, ci.IP, ci.Agent, "password verification error")
		util.CallServerError(c, util.APIErrorParams{Msg: "Login failed due to server error.", Err: err})
		return
	}
	if !match {
		incrementFailedAttempts(db, &user, ci)
		util.LogLoginFailure(email, ci.IP, ci.Agent, "invalid password")
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Invalid credentials", Err: fmt.Errorf("invalid password")})
		return
	}

	finalizeLogin(c, db, &user, ci)
}

func finalizeLogin(c *gin.Context, db *gorm.DB, user *model.User, ci clientInfo) {
	if err := resetFailedAttempts(db, user); err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventSuspiciousActivity,
			UserID:    fmt.Sprintf("%d", user.ID),
			Email:     user.Email,
			IP:        ci.IP,
			Message:   fmt.Sprintf("Failed to reset failed attempts: %v", err),
		})
	}

	ttl := config.LoadConfig().TokenTTL
	tokenString, err := createJWTToken(user, ttl)
	if err != nil {
		util.LogLoginFailure(user.Email, ci.IP, ci.Agent, "token generation failed")
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	expiresAt := time.Now().Add(ttl)
	session := model.Session{
		UserID:       user.ID,
		SessionToken: tokenString,
		ExpiresAt:    expiresAt,
		ClientIP:     ci.IP,
		Browser:      ci.Agent,
	}
	if err := db.Create(&session).Error; err != nil {
		util.LogLoginFailure(user.Email, ci.IP, ci.Agent, "session creation failed")
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to record session", Err: err})
		return
	}

	// Mirror the session in Redis (best-effort)
	if rdb := config.GetRedisClient(); rdb != nil {
		ctx := c.Request.Context()
		exp := time.Until(expiresAt)
		val := fmt.Sprintf("%d:%s", user.ID, user.Role)
		_ = rdb.Set(ctx, fmt.Sprintf("session:%s", tokenString), val, exp).Err()
		_ = util.AddSessionToUserSet(ctx, user.ID, tokenString)
	}

	util.LogLoginSuccess(user.ID, user.Email, ci.IP, ci.Agent)
	c.JSON(http.StatusOK, LoginResponse{
		Token:     tokenString,
		Role:      user.Role,
		Name:      user.Name,
		Specialty: user.Specialty,
	})
}

func isAccountLocked(user *model.User) (bool, time.Time) {
	if user.LockedUntil != nil && *user.LockedUntil > time.Now().Unix() {
		return true, time.Unix(*user.LockedUntil, 0)
	}
	return false, time.Time{}
}

func incrementFailedAttempts(db *gorm.DB, user *model.User, ci clientInfo) {
	user.FailedAttempts++
	if user.FailedAttempts >= 5 {
		lockUntil := time.Now().Add(15 * time.Minute).Unix()
		user.LockedUntil = &lockUntil
		util.LogAccountLocked(user.ID, user.Email, ci.IP, "too many failed login attempts")
		// A locked account should not keep live sessions around.
		_ = util.InvalidateUserSessions(context.Background(), user.ID)
	}
	if err := db.Model(user).Updates(map[string]interface{}{
		"failed_attempts": user.FailedAttempts,
		"locked_until":    user.LockedUntil,
	}).Error; err != nil {
		util.LogLoginFailure(user.Email, ci.IP, ci.Agent, "failed to update failed attempts")
	}
}

func resetFailedAttempts(db *gorm.DB, user *model.User) error {
	if user.FailedAttempts > 0 || user.LockedUntil != nil {
		user.FailedAttempts = 0
		user.LockedUntil = nil
		return db.Model(user).Updates(map[string]interface{}{
			"failed_attempts": 0,
			"locked_until":    nil,
		}).Error
	}
	return nil
}

func createJWTToken(user *model.User, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(util.GetJWTSecretByte())
}

// Logout godoc
// @Summary      User logout
// @Description  Invalidate the presented bearer token's session
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]string "Logout successful"
// @Failure      400 {object} map[string]string "Session not found"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Router       /api/auth/logout [delete]
func Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(header, "Bearer ")

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var session model.Session
	if err := db.Where("session_token = ?", tokenString).First(&session).Error; err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Session not found", Err: err})
		return
	}

	var user model.User
	if err := db.First(&user, session.UserID).Error; err == nil {
		util.LogLogout(user.ID, user.Email, c.ClientIP(), c.Request.UserAgent())
	}

	if err := db.Where("session_token = ?", tokenString).Delete(&session).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete session", Err: err})
		return
	}

	// Also delete the session mirror from Redis if available
	if rdb := config.GetRedisClient(); rdb != nil {
		ctx := c.Request.Context()
		_ = rdb.Del(ctx, fmt.Sprintf("session:%s", tokenString)).Err()
		_ = util.RemoveSessionTokenFromUserSet(ctx, session.UserID, tokenString)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
