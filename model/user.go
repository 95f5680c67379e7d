package model

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// User roles. The application only distinguishes patients and doctors.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// User represents a registered account
// @Description Patient or doctor account information
type User struct {
	gorm.Model
	Name           string `json:"name" gorm:"column:name;type:varchar(50);not null" example:"John Doe"`
	Email          string `json:"email" gorm:"column:email;type:varchar(191);uniqueIndex;not null" example:"john@example.com"`
	Password       string `json:"-" gorm:"column:password;not null"`
	PasswordSalt   string `json:"-" gorm:"column:password_salt"`
	Role           string `json:"role" gorm:"column:role;type:varchar(16);not null;default:patient" example:"patient"`
	Specialty      string `json:"specialty,omitempty" gorm:"column:specialty;type:varchar(100)" example:"Cardiology"`
	FailedAttempts int    `json:"-" gorm:"column:failed_attempts;default:0"`
	LockedUntil    *int64 `json:"-" gorm:"column:locked_until"`
}

// NewUserParams groups the fields required to construct a User.
type NewUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	PasswordSalt string
	Role         string
	Specialty    string
}

// NewUser constructs a User and enforces the role/specialty invariant:
// specialty is required (2-100 characters) when the role is doctor and must
// be empty otherwise. Email is stored lowercased.
func NewUser(p NewUserParams) (*User, error) {
	if p.Role != RolePatient && p.Role != RoleDoctor {
		return nil, fmt.Errorf("role must be either '%s' or '%s'", RolePatient, RoleDoctor)
	}
	specialty := strings.TrimSpace(p.Specialty)
	if err := checkSpecialty(p.Role, specialty); err != nil {
		return nil, err
	}
	return &User{
		Name:         p.Name,
		Email:        strings.ToLower(p.Email),
		Password:     p.PasswordHash,
		PasswordSalt: p.PasswordSalt,
		Role:         p.Role,
		Specialty:    specialty,
	}, nil
}

func checkSpecialty(role, specialty string) error {
	if role == RoleDoctor {
		if len(specialty) < 2 || len(specialty) > 100 {
			return fmt.Errorf("specialty is required for doctors and must be 2-100 characters")
		}
		return nil
	}
	if specialty != "" {
		return fmt.Errorf("specialty is only allowed for doctors")
	}
	return nil
}

// BeforeSave re-checks the role/specialty invariant at the storage boundary
// so a User mutated after construction cannot persist an invalid combination.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Role != RolePatient && u.Role != RoleDoctor {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	if len(u.Name) < 2 || len(u.Name) > 50 {
		return fmt.Errorf("name must be 2-50 characters")
	}
	return checkSpecialty(u.Role, u.Specialty)
}

// IsDoctor reports whether the user holds the doctor role.
func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}
