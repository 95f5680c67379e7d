package model

import (
	"regexp"
	"strconv"
	"strings"
)

// Validation is the structured result of a field check. Invalid input is a
// normal return value, never an error.
type Validation struct {
	Valid   bool
	Message string
}

var (
	bloodPressureRegex = regexp.MustCompile(`^(\d{1,3})/(\d{1,3})$`)
	emailRegex         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nameRegex          = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

func valid() Validation {
	return Validation{Valid: true}
}

func invalid(message string) Validation {
	return Validation{Valid: false, Message: message}
}

// ValidateBloodPressure checks a "systolic/diastolic" reading. Systolic must
// be 70-250 mmHg, diastolic 40-150 mmHg, and systolic strictly higher.
func ValidateBloodPressure(bp string) Validation {
	match := bloodPressureRegex.FindStringSubmatch(bp)
	if match == nil {
		return invalid("Blood pressure must be in format 'systolic/diastolic' (e.g., 120/80)")
	}

	systolic, _ := strconv.Atoi(match[1])
	diastolic, _ := strconv.Atoi(match[2])

	if systolic < 70 || systolic > 250 {
		return invalid("Systolic pressure must be between 70-250 mmHg")
	}
	if diastolic < 40 || diastolic > 150 {
		return invalid("Diastolic pressure must be between 40-150 mmHg")
	}
	if systolic <= diastolic {
		return invalid("Systolic pressure must be higher than diastolic pressure")
	}
	return valid()
}

// ValidateSugar checks a blood sugar reading in mg/dL.
func ValidateSugar(sugar string) Validation {
	n, err := strconv.Atoi(strings.TrimSpace(sugar))
	if err != nil || n < 20 || n > 600 {
		return invalid("Sugar level must be a number between 20-600 mg/dL")
	}
	return valid()
}

// ValidateHeartRate checks a heart rate reading in bpm.
func ValidateHeartRate(hr string) Validation {
	n, err := strconv.Atoi(strings.TrimSpace(hr))
	if err != nil || n < 30 || n > 220 {
		return invalid("Heart rate must be a number between 30-220 bpm")
	}
	return valid()
}

// ValidateEmail checks the simplified local@domain.tld shape: no whitespace,
// a single "@", and at least one "." in the domain part.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateName requires a trimmed length of at least 2 and letters/spaces
// only. The 50 character upper bound is enforced at the storage boundary.
func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 2 && nameRegex.MatchString(name)
}

// Password character classes. The symbol set is fixed; anything outside it
// does not count toward the symbol requirement.
const passwordSymbols = "!@#$%^&*"

// ValidatePassword returns every unmet password requirement so callers can
// report all failures at once. An empty slice means the password is valid.
func ValidatePassword(password string) []string {
	var missing []string
	if len(password) < 8 {
		missing = append(missing, "at least 8 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		missing = append(missing, "an uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "a lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "a number")
	}
	if !hasSymbol {
		missing = append(missing, "a special character ("+passwordSymbols+")")
	}
	return missing
}
