// Package sales writes the rows the treasury reports read: appointments,
// their completion, walk-in sales and supplier purchases.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/salonspa/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service writes appointments, sales and purchases.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Line is a product and the quantity sold.
type Line struct {
	ProductID uint `json:"productoId" example:"5"`
	Quantity  int  `json:"cantidad" example:"2"`
}

type Booking struct {
	ClientID   uint      `json:"clienteId" example:"7"`
	EmployeeID *uint     `json:"empleadoId" example:"3"`
	ServiceID  uint      `json:"servicioId" example:"2"`
	DateTime   time.Time `json:"fechaHora" example:"2024-05-14T15:30:00Z"`
	Lines      []Line    `json:"productos"`
}

type Sale struct {
	EmployeeID *uint  `json:"empleadoId" example:"3"`
	Lines      []Line `json:"productos"`
}

type Delivery struct {
	SupplierID uint            `json:"proveedorId" example:"1"`
	ProductID  uint            `json:"productoId" example:"5"`
	Quantity   int             `json:"cantidad" example:"24"`
	UnitCost   decimal.Decimal `json:"costoUnitario" swaggertype:"number" example:"2100"`
}

func validateLines(lines []Line) error {
	for i, l := range lines {
		if l.ProductID == 0 {
			return models.NewValidationError("Producto %d: el producto es obligatorio", i+1)
		}

		if l.Quantity <= 0 {
			return models.NewValidationError("Producto %d: la cantidad debe ser mayor a cero", i+1)
		}
	}

	return nil
}

// Book creates a booked appointment. All referenced records must exist.
func (s *Service) Book(ctx context.Context, b Booking) (models.Appointment, error) {
	if b.ClientID == 0 {
		return models.Appointment{}, models.NewValidationError("El cliente es obligatorio")
	}

	if b.ServiceID == 0 {
		return models.Appointment{}, models.NewValidationError("El servicio es obligatorio")
	}

	if b.DateTime.IsZero() {
		return models.Appointment{}, models.NewValidationError("La fecha y hora son obligatorias")
	}

	if err := validateLines(b.Lines); err != nil {
		return models.Appointment{}, err
	}

	appointment := models.Appointment{
		DateTime:   b.DateTime,
		Status:     models.AppointmentBooked,
		ClientID:   &b.ClientID,
		EmployeeID: b.EmployeeID,
		ServiceID:  &b.ServiceID,
	}

	for _, l := range b.Lines {
		appointment.ProductLines = append(appointment.ProductLines, models.AppointmentProduct{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.User{}, b.ClientID).Error; err != nil {
			return err
		}

		if b.EmployeeID != nil {
			var employee models.User
			if err := tx.First(&employee, *b.EmployeeID).Error; err != nil {
				return err
			}

			if employee.Role != models.RoleEmployee {
				return models.NewValidationError("El usuario %d no es un empleado", employee.ID)
			}
		}

		if err := tx.First(&models.Service{}, b.ServiceID).Error; err != nil {
			return err
		}

		for _, l := range b.Lines {
			if err := tx.First(&models.Product{}, l.ProductID).Error; err != nil {
				return err
			}
		}

		return tx.Create(&appointment).Error
	})
	if err != nil {
		return models.Appointment{}, err
	}

	return appointment, nil
}

// SetStatus transitions an appointment.
//
// Completing an appointment decrements the stock of its products and records
// the treasury entry. Completed and cancelled appointments cannot change.
func (s *Service) SetStatus(ctx context.Context, id uint, status models.AppointmentStatus) (models.Appointment, error) {
	if !status.Valid() {
		return models.Appointment{}, models.NewValidationError("Estado inválido: debe ser booked, completed o cancelled")
	}

	var appointment models.Appointment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Preload("Service").
			Preload("ProductLines.Product").
			First(&appointment, id).Error
		if err != nil {
			return err
		}

		if appointment.Status == status && status == models.AppointmentBooked {
			return nil
		}

		if appointment.Status.Terminal() {
			return models.NewValidationError("La cita ya está en estado %s y no puede cambiar", appointment.Status)
		}

		// Only one transaction can move the appointment out of booked
		result := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", appointment.ID, models.AppointmentBooked).
			UpdateColumns(map[string]any{"status": status, "updated_at": time.Now().UTC()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrAppointmentChanged
		}
		appointment.Status = status

		if status == models.AppointmentCompleted {
			return complete(tx, appointment)
		}

		return nil
	})
	if err != nil {
		return models.Appointment{}, err
	}

	log.Debug().Uint("appointment", appointment.ID).Str("status", string(appointment.Status)).Msg("appointment status")
	return appointment, nil
}

// complete records the treasury entry of an appointment and takes its
// products out of stock.
func complete(tx *gorm.DB, a models.Appointment) error {
	entry := models.TreasuryEntry{
		IncomeFromService:  decimal.Zero,
		IncomeFromProducts: decimal.Zero,
		AppointmentID:      &a.ID,
		EmployeeID:         a.EmployeeID,
		SoldProducts:       make([]models.SoldProduct, 0, len(a.ProductLines)),
	}

	if a.Service != nil {
		entry.IncomeFromService = a.Service.Price
		entry.SpecialtyLabel = a.Service.Specialty
	}

	for _, l := range a.ProductLines {
		if l.Product == nil {
			return fmt.Errorf("%w producto con ese identificador", models.ErrResourceNotFound)
		}

		if err := takeStock(tx, *l.Product, l.Quantity); err != nil {
			return err
		}

		entry.IncomeFromProducts = entry.IncomeFromProducts.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		entry.SoldProducts = append(entry.SoldProducts, snapshot(*l.Product, l.Quantity))
	}

	entry.Total = entry.IncomeFromService.Add(entry.IncomeFromProducts)
	return tx.Create(&entry).Error
}

// takeStock decrements the stock of the product if enough is available.
func takeStock(tx *gorm.DB, p models.Product, quantity int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", p.ID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w para %s", models.ErrInsufficientStock, p.Name)
	}

	return nil
}

func snapshot(p models.Product, quantity int) models.SoldProduct {
	return models.SoldProduct{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  quantity,
		UnitPrice: p.Price,
	}
}

// Sell records a walk-in sale. Either every line is taken out of stock or
// nothing is written.
func (s *Service) Sell(ctx context.Context, sale Sale) (models.TreasuryEntry, error) {
	if len(sale.Lines) == 0 {
		return models.TreasuryEntry{}, models.NewValidationError("La venta requiere al menos un producto")
	}

	if err := validateLines(sale.Lines); err != nil {
		return models.TreasuryEntry{}, err
	}

	entry := models.TreasuryEntry{
		IncomeFromService:  decimal.Zero,
		IncomeFromProducts: decimal.Zero,
		EmployeeID:         sale.EmployeeID,
		SoldProducts:       make([]models.SoldProduct, 0, len(sale.Lines)),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if sale.EmployeeID != nil {
			if err := tx.First(&models.User{}, *sale.EmployeeID).Error; err != nil {
				return err
			}
		}

		for _, l := range sale.Lines {
			var p models.Product
			if err := tx.First(&p, l.ProductID).Error; err != nil {
				return err
			}

			if err := takeStock(tx, p, l.Quantity); err != nil {
				return err
			}

			entry.IncomeFromProducts = entry.IncomeFromProducts.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
			entry.SoldProducts = append(entry.SoldProducts, snapshot(p, l.Quantity))
		}

		entry.Total = entry.IncomeFromProducts
		return tx.Create(&entry).Error
	})
	if err != nil {
		return models.TreasuryEntry{}, err
	}

	return entry, nil
}

// Purchase adds a supplier delivery to the stock and records its cost as a
// negative treasury entry.
func (s *Service) Purchase(ctx context.Context, d Delivery) (models.Purchase, error) {
	if d.SupplierID == 0 {
		return models.Purchase{}, models.NewValidationError("El proveedor es obligatorio")
	}

	if d.ProductID == 0 {
		return models.Purchase{}, models.NewValidationError("El producto es obligatorio")
	}

	if d.Quantity <= 0 {
		return models.Purchase{}, models.NewValidationError("La cantidad debe ser mayor a cero")
	}

	if !d.UnitCost.IsPositive() {
		return models.Purchase{}, models.NewValidationError("El costo unitario debe ser mayor a cero")
	}

	if err := models.CheckAmount(d.UnitCost); err != nil {
		return models.Purchase{}, models.NewValidationError("El costo unitario %s", err)
	}

	var purchase models.Purchase
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var supplier models.Supplier
		if err := tx.First(&supplier, d.SupplierID).Error; err != nil {
			return err
		}

		var product models.Product
		if err := tx.First(&product, d.ProductID).Error; err != nil {
			return err
		}

		err := tx.Model(&product).UpdateColumn("stock", gorm.Expr("stock + ?", d.Quantity)).Error
		if err != nil {
			return err
		}

		cost := d.UnitCost.Mul(decimal.NewFromInt(int64(d.Quantity)))
		entry := models.TreasuryEntry{
			IncomeFromService:  decimal.Zero,
			IncomeFromProducts: decimal.Zero,
			Total:              cost.Neg(),
			SoldProducts:       []models.SoldProduct{},
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		purchase = models.Purchase{
			Date:            entry.Date,
			SupplierID:      supplier.ID,
			ProductID:       product.ID,
			Quantity:        d.Quantity,
			UnitCost:        d.UnitCost,
			TreasuryEntryID: entry.ID,
		}
		return tx.Create(&purchase).Error
	})
	if err != nil {
		return models.Purchase{}, err
	}

	return purchase, nil
}
