package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is a bookable treatment, e.g. a haircut or a massage.
type Service struct {
	DefaultModel
	Name      string          `json:"nombre" gorm:"not null" example:"Corte y peinado"`
	Price     decimal.Decimal `json:"precio" gorm:"type:DECIMAL(20,8)" example:"8500"`
	Specialty string          `json:"especialidad" example:"Peluquería"`
}

func (s *Service) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Specialty = strings.TrimSpace(s.Specialty)
	return nil
}

// Product is a physical product in stock. It can be sold walk-in or as part of an appointment.
type Product struct {
	DefaultModel
	Name  string          `json:"nombre" gorm:"not null" example:"Shampoo neutro 500ml"`
	Price decimal.Decimal `json:"precio" gorm:"type:DECIMAL(20,8)" example:"4200"`
	Stock int             `json:"stock" gorm:"not null;default:0;check:stock_non_negative,stock >= 0" example:"12"`
}

func (p *Product) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	return nil
}

// Supplier delivers products.
type Supplier struct {
	DefaultModel
	Name  string `json:"nombre" gorm:"not null" example:"Distribuidora Belleza SRL"`
	Email string `json:"email" gorm:"uniqueIndex;not null" example:"ventas@belleza.example"`
	Phone string `json:"telefono,omitempty" example:"+54 11 5555-0000"`
}

func (s *Supplier) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Phone = strings.TrimSpace(s.Phone)
	return nil
}
