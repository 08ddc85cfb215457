package controllers

import (
	"github.com/salonspa/backend/internal/models"
	"github.com/shopspring/decimal"
)

type ServiceEditable struct {
	Name      string          `json:"nombre" binding:"required,max=255" example:"Corte y peinado"`
	Price     decimal.Decimal `json:"precio" swaggertype:"number" example:"8500"`
	Specialty string          `json:"especialidad" binding:"max=255" example:"Peluquería"`
}

func (e ServiceEditable) model() (models.Service, error) {
	if e.Price.IsNegative() {
		return models.Service{}, errNegativePrice
	}

	if err := models.CheckAmount(e.Price); err != nil {
		return models.Service{}, models.NewValidationError("El precio %s", err)
	}

	return models.Service{Name: e.Name, Price: e.Price, Specialty: e.Specialty}, nil
}

type ProductEditable struct {
	Name  string          `json:"nombre" binding:"required,max=255" example:"Shampoo neutro 500ml"`
	Price decimal.Decimal `json:"precio" swaggertype:"number" example:"4200"`
	Stock int             `json:"stock" binding:"min=0" example:"12"`
}

func (e ProductEditable) model() (models.Product, error) {
	if e.Price.IsNegative() {
		return models.Product{}, errNegativePrice
	}

	if err := models.CheckAmount(e.Price); err != nil {
		return models.Product{}, models.NewValidationError("El precio %s", err)
	}

	return models.Product{Name: e.Name, Price: e.Price, Stock: e.Stock}, nil
}

type ProductQueryFilter struct {
	Name string `form:"name"` // Glob pattern for the name, e.g. "Tint*". Case is ignored.
}

type SupplierEditable struct {
	Name  string `json:"nombre" binding:"required,max=255" example:"Distribuidora Belleza SRL"`
	Email string `json:"email" binding:"required,email" example:"ventas@belleza.example"`
	Phone string `json:"telefono" binding:"max=50" example:"+54 11 5555-0000"`
}

func (e SupplierEditable) model() models.Supplier {
	return models.Supplier{Name: e.Name, Email: e.Email, Phone: e.Phone}
}

var errNegativePrice = models.NewValidationError("El precio no puede ser negativo")
