package models

import (
	"strings"

	"gopkg.in/guregu/null.v4"
)

type Lessor struct {
	ID          int         `json:"lessor_id" db:"lessor_id"`
	FirstName   string      `json:"lessor_firstname" db:"lessor_firstname"`
	LastName    string      `json:"lessor_lastname" db:"lessor_lastname"`
	PhoneNumber string      `json:"lessor_phone_number" db:"lessor_phone_number"`
	LineURL     string      `json:"lessor_line_url" db:"lessor_line_url"`
	ProfilePic  null.String `json:"lessor_profile_pic" db:"lessor_profile_pic"`
	Version     int         `json:"version" db:"version"`
}

type LessorUpdate struct {
	FirstName   string      `json:"lessor_firstname"`
	LastName    string      `json:"lessor_lastname"`
	PhoneNumber string      `json:"lessor_phone_number"`
	LineURL     string      `json:"lessor_line_url"`
	ProfilePic  null.String `json:"lessor_profile_pic"`
	Version     int         `json:"version,omitempty"`
}

// Blank reports whether every text field is empty.
func (u LessorUpdate) Blank() bool {
	return strings.TrimSpace(u.FirstName) == "" &&
		strings.TrimSpace(u.LastName) == "" &&
		strings.TrimSpace(u.PhoneNumber) == "" &&
		strings.TrimSpace(u.LineURL) == ""
}

func (l Lessor) Editable() LessorUpdate {
	return LessorUpdate{
		FirstName:   l.FirstName,
		LastName:    l.LastName,
		PhoneNumber: l.PhoneNumber,
		LineURL:     l.LineURL,
		ProfilePic:  l.ProfilePic,
		Version:     l.Version,
	}
}

// ImageUploadResult is returned by the profile image endpoint.
type ImageUploadResult struct {
	PublicURL string `json:"publicUrl"`
	LessorID  int    `json:"lessorId"`
}
