package models

import (
	"strings"

	"gorm.io/gorm"
)

// Role is the role of a user. It decides which endpoints the user can call.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleEmployee  Role = "empleado"
	RoleTreasurer Role = "tesorero"
	RoleClient    Role = "cliente"
)

// Valid reports if the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleTreasurer, RoleClient:
		return true
	}
	return false
}

// User is anyone who can log in: staff and clients.
type User struct {
	DefaultModel
	Name         string `json:"nombre" gorm:"not null" example:"Lucía Fernández"`
	Email        string `json:"email" gorm:"uniqueIndex;not null" example:"lucia@example.com"`
	PasswordHash []byte `json:"-"`
	Role         Role   `json:"rol" gorm:"not null;default:cliente;index" example:"empleado"`
	Specialty    string `json:"especialidad,omitempty" example:"Colorimetría"` // Only set for employees
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Specialty = strings.TrimSpace(u.Specialty)

	if u.Role == "" {
		u.Role = RoleClient
	}

	return nil
}
