package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TreasuryEntry is an immutable ledger row for one income or outflow event.
//
// Appointment completions and walk-in sales have a positive total,
// supplier purchases a negative one.
type TreasuryEntry struct {
	DefaultModel
	Date               time.Time       `json:"fecha" gorm:"index" example:"2024-05-14T16:10:00Z"`
	IncomeFromService  decimal.Decimal `json:"ingresoServicio" gorm:"type:DECIMAL(20,8)" example:"8500"`
	IncomeFromProducts decimal.Decimal `json:"ingresoProductos" gorm:"type:DECIMAL(20,8)" example:"4200"`
	Total              decimal.Decimal `json:"total" gorm:"type:DECIMAL(20,8)" example:"12700"`
	AppointmentID      *uint           `json:"citaId,omitempty" gorm:"index" example:"18"`
	Appointment        *Appointment    `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	EmployeeID         *uint           `json:"empleadoId,omitempty" example:"3"`
	Employee           *User           `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	SpecialtyLabel     string          `json:"especialidad" example:"Peluquería"`
	SoldProducts       []SoldProduct   `json:"productosVendidos" gorm:"serializer:json"`
}

// SoldProduct is the snapshot of a product at the time it was sold.
type SoldProduct struct {
	ProductID uint            `json:"productoId" example:"5"`
	Name      string          `json:"nombre" example:"Shampoo neutro 500ml"`
	Quantity  int             `json:"cantidad" example:"1"`
	UnitPrice decimal.Decimal `json:"precioUnitario" example:"4200"`
}

func (e *TreasuryEntry) BeforeCreate(_ *gorm.DB) error {
	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}
	return nil
}

// BeforeUpdate rejects all updates, treasury entries are append-only.
func (e *TreasuryEntry) BeforeUpdate(_ *gorm.DB) error {
	return ErrTreasuryEntryImmutable
}

// BeforeDelete rejects all deletes, treasury entries are append-only.
func (e *TreasuryEntry) BeforeDelete(_ *gorm.DB) error {
	return ErrTreasuryEntryImmutable
}

func (e *TreasuryEntry) AfterFind(tx *gorm.DB) error {
	e.Date = e.Date.In(time.UTC)
	return e.DefaultModel.AfterFind(tx)
}
