package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the roles recognised by the company's identity service.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleOfficer UserRole = "OFFICER"
	RoleMember  UserRole = "MEMBER"
)

// JWTClaims represents the access-token payload issued by the identity
// service. This API trusts the token as already verified upstream and uses
// UserID only for audit fields.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
