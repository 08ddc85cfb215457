package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase is a delivery of products by a supplier.
type Purchase struct {
	DefaultModel
	Date            time.Time       `json:"fecha" example:"2024-05-02T10:00:00Z"`
	SupplierID      uint            `json:"proveedorId" gorm:"not null" example:"1"`
	Supplier        *Supplier       `json:"-"`
	ProductID       uint            `json:"productoId" gorm:"not null" example:"5"`
	Product         *Product        `json:"-"`
	Quantity        int             `json:"cantidad" example:"24"`
	UnitCost        decimal.Decimal `json:"costoUnitario" gorm:"type:DECIMAL(20,8)" example:"2100"`
	TreasuryEntryID uint            `json:"movimientoId" example:"31"`
}

func (p *Purchase) BeforeSave(_ *gorm.DB) error {
	if p.Date.IsZero() {
		p.Date = time.Now().In(time.UTC)
	} else {
		p.Date = p.Date.In(time.UTC)
	}
	return nil
}

// Suggestion is a feedback message left by a user.
type Suggestion struct {
	ID        uint      `json:"id" gorm:"primaryKey" example:"4"`
	Message   string    `json:"mensaje" gorm:"not null" example:"Sería bueno poder reservar los domingos"`
	CreatedAt time.Time `json:"fecha" example:"2024-05-02T10:00:00Z"`
}
