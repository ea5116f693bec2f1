// Package models defines server-side data models persisted in the database.
package models

import "github.com/dmitrijs2005/hrkeeper/internal/common"

// User is both a login identity and, for the Employee role, a directory
// record. Age is bounded to 18..120 and NationalID is exactly 14 characters.
type User struct {
	ID           string      `gorm:"column:id;primaryKey" json:"id"`
	UserName     string      `gorm:"column:username" json:"userName"`
	PasswordHash string      `gorm:"column:password_hash" json:"-"`
	Role         common.Role `gorm:"column:role" json:"role"`
	FirstName    string      `gorm:"column:first_name" json:"firstName"`
	LastName     string      `gorm:"column:last_name" json:"lastName"`
	PhoneNumber  string      `gorm:"column:phone_number" json:"phoneNumber"`
	NationalID   string      `gorm:"column:national_id" json:"nationalId"`
	Age          int         `gorm:"column:age" json:"age"`
	// Signature is the storage key of the uploaded signature image, if any.
	Signature *string `gorm:"column:electronic_signature" json:"electronicSignature"`
}

// TableName binds User to the users table for gorm.
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
