package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentBooked    AppointmentStatus = "booked"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Valid reports if the status is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentBooked, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// Terminal reports if no transition out of the status is possible.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

// Appointment is a booking of a service by a client with an employee.
type Appointment struct {
	DefaultModel
	DateTime     time.Time            `json:"fechaHora" gorm:"index" example:"2024-05-14T15:30:00Z"`
	Status       AppointmentStatus    `json:"estado" gorm:"not null;default:booked;index" example:"booked"`
	ClientID     *uint                `json:"clienteId" example:"7"`
	Client       *User                `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	EmployeeID   *uint                `json:"empleadoId" example:"3"`
	Employee     *User                `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	ServiceID    *uint                `json:"servicioId" example:"2"`
	Service      *Service             `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	ProductLines []AppointmentProduct `json:"productos"`
}

// AppointmentProduct is a product used or sold during an appointment.
type AppointmentProduct struct {
	ID            uint     `json:"-" gorm:"primaryKey"`
	AppointmentID uint     `json:"-" gorm:"index;not null"`
	ProductID     uint     `json:"productoId" example:"5"`
	Product       *Product `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Quantity      int      `json:"cantidad" example:"2"`
}

func (a *Appointment) BeforeSave(_ *gorm.DB) error {
	a.DateTime = a.DateTime.In(time.UTC)
	if a.Status == "" {
		a.Status = AppointmentBooked
	}
	return nil
}

func (a *Appointment) AfterFind(tx *gorm.DB) error {
	a.DateTime = a.DateTime.In(time.UTC)
	return a.DefaultModel.AfterFind(tx)
}

// Revenue is the price of the service plus every product line at the current product price.
//
// Relations must be preloaded. Missing services and products count as zero.
func (a Appointment) Revenue() decimal.Decimal {
	revenue := decimal.Zero
	if a.Service != nil {
		revenue = revenue.Add(a.Service.Price)
	}

	for _, line := range a.ProductLines {
		if line.Product == nil {
			continue
		}
		revenue = revenue.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return revenue
}
