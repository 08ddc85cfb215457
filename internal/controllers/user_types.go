package controllers

import "github.com/salonspa/backend/internal/models"

type LoginEditable struct {
	Email    string `json:"email" binding:"required,email" example:"lucia@example.com"`
	Password string `json:"password" binding:"required" example:"s3cr3t-pass"`
}

type LoginResponse struct {
	Token string      `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."` // Bearer token for the Authorization header
	User  models.User `json:"usuario"`                                                   // The logged in user
}

type RegisterEditable struct {
	Name     string `json:"nombre" binding:"required,max=255" example:"Lucía Fernández"`
	Email    string `json:"email" binding:"required,email" example:"lucia@example.com"`
	Password string `json:"password" binding:"required" example:"s3cr3t-pass"`
}

// UserEditable is used by admins to create users with any role.
type UserEditable struct {
	RegisterEditable
	Role      models.Role `json:"rol" binding:"required,oneof=admin empleado tesorero cliente" example:"empleado"`
	Specialty string      `json:"especialidad" binding:"max=255" example:"Colorimetría"`
}
