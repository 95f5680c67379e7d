package endpoint

import (
	"net/http"
	"testing"

	"github.com/ariebrainware/cloudvault/model"
	"github.com/stretchr/testify/assert"
)

func registerBody(overrides map[string]interface{}) map[string]interface{} {
	body := map[string]interface{}{
		"name":     "John Doe",
		"email":    "john@example.com",
		"password": "Str0ng!pass",
		"role":     "patient",
	}
	for k, v := range overrides {
		body[k] = v
	}
	return body
}

func TestRegister_Patient(t *testing.T) {
	r, db := setupEndpointTest(t)

	w := doJSONRequest(r, "POST", "/api/auth/register", registerBody(nil), "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User registered successfully", decodeBody(t, w)["message"])

	var user model.User
	assert.NoError(t, db.Where("email = ?", "john@example.com").First(&user).Error)
	assert.Equal(t, model.RolePatient, user.Role)
	assert.NotEqual(t, "Str0ng!pass", user.Password, "plaintext password must never be stored")
}

func TestRegister_DoctorRequiresSpecialty(t *testing.T) {
	r, _ := setupEndpointTest(t)

	w := doJSONRequest(r, "POST", "/api/auth/register", registerBody(map[string]interface{}{
		"role": "doctor",
	}), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "Specialty")

	w = doJSONRequest(r, "POST", "/api/auth/register", registerBody(map[string]interface{}{
		"role":      "doctor",
		"specialty": "Cardiology",
	}), "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRegister_ValidationFailures(t *testing.T) {
	r, _ := setupEndpointTest(t)

	cases := []struct {
		name      string
		overrides map[string]interface{}
	}{
		{"short name", map[string]interface{}{"name": "J"}},
		{"name with digits", map[string]interface{}{"name": "John3"}},
		{"bad email", map[string]interface{}{"email": "john@example"}},
		{"weak password", map[string]interface{}{"password": "password"}},
		{"unknown role", map[string]interface{}{"role": "admin"}},
	}
	for _, c := range cases {
		w := doJSONRequest(r, "POST", "/api/auth/register", registerBody(c.overrides), "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "case %q", c.name)
		assert.NotEmpty(t, decodeBody(t, w)["error"], "case %q", c.name)
	}
}

func TestRegister_PasswordErrorListsAllMissingClasses(t *testing.T) {
	r, _ := setupEndpointTest(t)

	w := doJSONRequest(r, "POST", "/api/auth/register", registerBody(map[string]interface{}{
		"password": "abc",
	}), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errMsg, _ := decodeBody(t, w)["error"].(string)
	assert.Contains(t, errMsg, "8 characters")
	assert.Contains(t, errMsg, "uppercase")
	assert.Contains(t, errMsg, "number")
	assert.Contains(t, errMsg, "special character")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r, _ := setupEndpointTest(t)

	w := doJSONRequest(r, "POST", "/api/auth/register", registerBody(nil), "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSONRequest(r, "POST", "/api/auth/register", registerBody(nil), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "Email already used")
}

func TestRegister_EmailStoredLowercase(t *testing.T) {
	r, db := setupEndpointTest(t)

	w := doJSONRequest(r, "POST", "/api/auth/register", registerBody(map[string]interface{}{
		"email": "John@Example.COM",
	}), "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var user model.User
	assert.NoError(t, db.Where("email = ?", "john@example.com").First(&user).Error)
}

func TestRegister_SanitizesName(t *testing.T) {
	r, db := setupEndpointTest(t)

	// "John  Doe" with surrounding spaces passes name validation; sanitize
	// trims before storage.
	w := doJSONRequest(r, "POST", "/api/auth/register", registerBody(map[string]interface{}{
		"name": "  John Doe  ",
	}), "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var user model.User
	assert.NoError(t, db.Where("email = ?", "john@example.com").First(&user).Error)
	assert.Equal(t, "John Doe", user.Name)
}

func TestLogin_Success(t *testing.T) {
	r, db := setupEndpointTest(t)
	createTestUser(t, db, "Jane Doctor", "jane@example.com", model.RoleDoctor, "Cardiology")

	w := doJSONRequest(r, "POST", "/api/auth/login", map[string]interface{}{
		"email":    "jane@example.com",
		"password": "Str0ng!pass",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "doctor", body["role"])
	assert.Equal(t, "Jane Doctor", body["name"])
	assert.Equal(t, "Cardiology", body["specialty"])
}

func TestLogin_PatientResponseOmitsSpecialty(t *testing.T) {
	r, db := setupEndpointTest(t)
	createTestUser(t, db, "John Doe", "john@example.com", model.RolePatient, "")

	w := doJSONRequest(r, "POST", "/api/auth/login", map[string]interface{}{
		"email":    "john@example.com",
		"password": "Str0ng!pass",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "specialty")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r, db := setupEndpointTest(t)
	createTestUser(t, db, "John Doe", "john@example.com", model.RolePatient, "")

	// Unknown email and wrong password produce the same answer.
	w := doJSONRequest(r, "POST", "/api/auth/login", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "Str0ng!pass",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, w)["error"])

	w = doJSONRequest(r, "POST", "/api/auth/login", map[string]interface{}{
		"email":    "john@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, w)["error"])
}

func TestLogin_TokenGrantsAccess(t *testing.T) {
	r, db := setupEndpointTest(t)
	createTestUser(t, db, "John Doe", "john@example.com", model.RolePatient, "")

	w := doJSONRequest(r, "POST", "/api/auth/login", map[string]interface{}{
		"email":    "john@example.com",
		"password": "Str0ng!pass",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	token, _ := decodeBody(t, w)["token"].(string)

	w = doJSONRequest(r, "GET", "/api/records/my", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_LocksAccountAfterRepeatedFailures(t *testing.T) {
	r, db := setupEndpointTest(t)
	createTestUser(t, db, "John Doe", "john@example.com", model.RolePatient, "")

	for i := 0; i < 5; i++ {
		w := doJSONRequest(r, "POST", "/api/auth/login", map[string]interface{}{
			"email":    "john@example.com",
			"password": "wrong-password",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	// Even the correct password is refused while the account is locked.
	w := doJSONRequest(r, "POST", "/api/auth/login", map[string]interface{}{
		"email":    "john@example.com",
		"password": "Str0ng!pass",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "locked")
}

func TestLogout(t *testing.T) {
	r, db := setupEndpointTest(t)
	createTestUser(t, db, "John Doe", "john@example.com", model.RolePatient, "")

	w := doJSONRequest(r, "POST", "/api/auth/login", map[string]interface{}{
		"email":    "john@example.com",
		"password": "Str0ng!pass",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	token, _ := decodeBody(t, w)["token"].(string)

	var count int64
	db.Model(&model.Session{}).Count(&count)
	assert.Equal(t, int64(1), count)

	w = doJSONRequest(r, "DELETE", "/api/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	db.Model(&model.Session{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// A second logout with the same token finds no session.
	w = doJSONRequest(r, "DELETE", "/api/auth/logout", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
