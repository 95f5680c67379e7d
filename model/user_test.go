package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPatientParams() NewUserParams {
	return NewUserParams{
		Name:         "John Doe",
		Email:        "John@Example.com",
		PasswordHash: "argon2id$abc",
		PasswordSalt: "00ff",
		Role:         RolePatient,
	}
}

func TestNewUser_LowercasesEmail(t *testing.T) {
	u, err := NewUser(validPatientParams())
	assert.NoError(t, err)
	assert.Equal(t, "john@example.com", u.Email)
}

func TestNewUser_RejectsUnknownRole(t *testing.T) {
	p := validPatientParams()
	p.Role = "admin"
	_, err := NewUser(p)
	assert.Error(t, err)
}

func TestNewUser_SpecialtyRequiredForDoctor(t *testing.T) {
	p := validPatientParams()
	p.Role = RoleDoctor

	_, err := NewUser(p)
	assert.Error(t, err)

	p.Specialty = "C"
	_, err = NewUser(p)
	assert.Error(t, err)

	p.Specialty = "Cardiology"
	u, err := NewUser(p)
	assert.NoError(t, err)
	assert.Equal(t, "Cardiology", u.Specialty)
}

func TestNewUser_SpecialtyForbiddenForPatient(t *testing.T) {
	p := validPatientParams()
	p.Specialty = "Cardiology"
	_, err := NewUser(p)
	assert.Error(t, err)
}

func TestUserModel_BeforeSaveEnforcesInvariant(t *testing.T) {
	db := setupTestDB(t, &User{})

	u, err := NewUser(validPatientParams())
	assert.NoError(t, err)
	assert.NoError(t, db.Create(u).Error)

	// Mutating the struct after construction cannot persist an invalid
	// role/specialty combination.
	u.Role = RoleDoctor
	u.Specialty = ""
	assert.Error(t, db.Save(u).Error)
}

func TestUserModel_DuplicateEmailRejected(t *testing.T) {
	db := setupTestDB(t, &User{})

	first, err := NewUser(validPatientParams())
	assert.NoError(t, err)
	assert.NoError(t, db.Create(first).Error)

	second, err := NewUser(validPatientParams())
	assert.NoError(t, err)
	assert.Error(t, db.Create(second).Error, "unique index should reject the duplicate email")
}

func TestUserModel_NameLengthEnforcedAtStorage(t *testing.T) {
	db := setupTestDB(t, &User{})

	u, err := NewUser(validPatientParams())
	assert.NoError(t, err)
	u.Name = "J"
	assert.Error(t, db.Create(u).Error)

	u.Name = strings.Repeat("a", 51)
	assert.Error(t, db.Create(u).Error)
}

func TestUser_IsDoctor(t *testing.T) {
	assert.True(t, (&User{Role: RoleDoctor}).IsDoctor())
	assert.False(t, (&User{Role: RolePatient}).IsDoctor())
}
