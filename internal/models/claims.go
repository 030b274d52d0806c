package models

import "github.com/golang-jwt/jwt"

const (
	RoleAdmin  = "admin"
	RoleLessor = "lessor"
	RoleRenter = "renter"
)

type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// ValidUserType reports whether t is a role that can submit complaints.
func ValidUserType(t string) bool {
	return t == RoleLessor || t == RoleRenter
}
