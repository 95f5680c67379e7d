package util

import (
	"strings"
	"testing"

	"github.com/ariebrainware/cloudvault/model"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSanitizeLogValue(t *testing.T) {
	assert.Equal(t, "a b c", sanitizeLogValue("a\nb\tc"))
	assert.Equal(t, "a  b", sanitizeLogValue("a\r\nb"))

	long := strings.Repeat("x", 300)
	out := sanitizeLogValue(long)
	assert.Len(t, out, 203)
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestLogSecurityEvent_PersistsToDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&model.SecurityLog{}))
	t.Cleanup(func() {
		SetSecurityLoggerDB(nil)
		_ = db.Migrator().DropTable(&model.SecurityLog{})
	})

	SetSecurityLoggerDB(db)
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		Email:     "john@example.com",
		IP:        "127.0.0.1",
		Message:   "Login failed: invalid password",
		Details:   map[string]interface{}{"attempts": 3},
	})

	var entry model.SecurityLog
	assert.NoError(t, db.First(&entry).Error)
	assert.Equal(t, string(EventLoginFailure), entry.EventType)
	assert.Equal(t, "john@example.com", entry.Email)
	assert.NotEmpty(t, entry.Details)
}

func TestLogSecurityEvent_NoDBConfigured(t *testing.T) {
	SetSecurityLoggerDB(nil)
	// Must not panic without a DB; stdout logging is enough.
	LogLoginFailure("john@example.com", "127.0.0.1", "test-agent", "user not found")
	LogLoginSuccess(1, "john@example.com", "127.0.0.1", "test-agent")
	LogLogout(1, "john@example.com", "127.0.0.1", "test-agent")
	LogAccountLocked(1, "john@example.com", "127.0.0.1", "too many attempts")
	LogRateLimitExceeded("1", "127.0.0.1", "/api/auth/login")
}
