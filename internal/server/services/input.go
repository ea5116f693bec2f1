package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/hrkeeper/internal/common"
	"github.com/dmitrijs2005/hrkeeper/internal/server/auth"
	"github.com/dmitrijs2005/hrkeeper/internal/server/models"
)

const (
	MinAge           = 18
	MaxAge           = 120
	NationalIDLength = 14
)

// EmployeeInput is a new Employee profile with its initial password.
type EmployeeInput struct {
	UserName    string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	NationalID  string
	Age         int
}

// Validate repeats the HTTP-level checks so the service is safe to call
// directly.
func (in *EmployeeInput) Validate() error {
	switch {
	case strings.TrimSpace(in.UserName) == "":
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	case in.Password == "":
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if err := checkNationalID(in.NationalID); err != nil {
		return err
	}
	return checkAge(in.Age)
}

// EmployeeUpdate carries optional changes. Empty strings and a nil Age leave
// the stored value unchanged; a non-empty Password resets the credential.
type EmployeeUpdate struct {
	UserName    string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	NationalID  string
	Age         *int
}

// fields maps the update onto users columns, hashing the password.
func (u *EmployeeUpdate) fields() (map[string]any, error) {
	f := map[string]any{}

	set := func(col, v string) {
		if v = strings.TrimSpace(v); v != "" {
			f[col] = v
		}
	}
	set("username", u.UserName)
	set("first_name", u.FirstName)
	set("last_name", u.LastName)
	set("phone_number", u.PhoneNumber)

	if u.NationalID != "" {
		if err := checkNationalID(u.NationalID); err != nil {
			return nil, err
		}
		f["national_id"] = u.NationalID
	}
	if u.Age != nil {
		if err := checkAge(*u.Age); err != nil {
			return nil, err
		}
		f["age"] = *u.Age
	}
	if u.Password != "" {
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return nil, err
		}
		f["password_hash"] = hash
	}

	return f, nil
}

func checkAge(age int) error {
	if age < MinAge || age > MaxAge {
		return fmt.Errorf("%w: age must be between %d and %d", common.ErrorValidation, MinAge, MaxAge)
	}
	return nil
}

func checkNationalID(id string) error {
	if len(id) != NationalIDLength {
		return fmt.Errorf("%w: national id must be exactly %d characters", common.ErrorValidation, NationalIDLength)
	}
	for _, r := range id {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("%w: national id must be digits", common.ErrorValidation)
		}
	}
	return nil
}

func newEmployee(in EmployeeInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return &models.User{
		UserName:     strings.TrimSpace(in.UserName),
		PasswordHash: hash,
		Role:         common.RoleEmployee,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		NationalID:   in.NationalID,
		Age:          in.Age,
	}, nil
}
