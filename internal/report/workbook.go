// Package report renders treasury reports as XLSX workbooks.
package report

import (
	"fmt"
	"io"

	"github.com/salonspa/backend/internal/treasury"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the media type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names in workbook order.
const (
	SheetSummary   = "Resumen"
	SheetDays      = "Por dia"
	SheetEmployees = "Por empleado"
	SheetSpecialty = "Por especialidad"
	SheetClients   = "Clientes"
	SheetProducts  = "Productos"
)

type sheet struct {
	name   string
	header []any
	rows   [][]any
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func sheets(o treasury.Overview) []sheet {
	summary := sheet{
		name:   SheetSummary,
		header: []any{"Concepto", "Valor"},
		rows: [][]any{
			{"Ingresos totales", money(o.Summary.IncomeTotal)},
			{"Egresos totales", money(o.Summary.ExpenseTotal)},
			{"Ganancia neta", money(o.Summary.NetProfit)},
			{"Citas completadas", o.Summary.CompletedAppointments},
			{"Citas canceladas", o.Summary.CancelledAppointments},
			{"Citas totales", o.Summary.TotalAppointments},
		},
	}

	days := sheet{name: SheetDays, header: []any{"Día", "Ingresos", "Egresos"}}
	for _, d := range o.Detail.ByDay {
		days.rows = append(days.rows, []any{d.Day, money(d.Income), money(d.Expenses)})
	}

	employees := sheet{name: SheetEmployees, header: []any{"Empleado", "Ingresos"}}
	for _, e := range o.Detail.ByEmployee {
		employees.rows = append(employees.rows, []any{e.Employee, money(e.Income)})
	}

	specialties := sheet{name: SheetSpecialty, header: []any{"Especialidad", "Ingresos"}}
	for _, s := range o.Detail.BySpecialty {
		specialties.rows = append(specialties.rows, []any{s.Specialty, money(s.Income)})
	}

	clients := sheet{name: SheetClients, header: []any{"Cliente", "Email", "Citas completadas", "Total gastado", "Cliente desde"}}
	for _, c := range o.Clients {
		clients.rows = append(clients.rows, []any{c.Name, c.Email, c.CompletedAppointments, money(c.TotalSpent), c.ClientSince.Format("2006-01-02")})
	}

	products := sheet{name: SheetProducts, header: []any{"Producto", "Cantidad"}}
	for _, p := range o.Products {
		products.rows = append(products.rows, []any{p.Name, p.Quantity})
	}

	return []sheet{summary, days, employees, specialties, clients, products}
}

// Workbook renders the overview.
func Workbook(o treasury.Overview) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, s := range sheets(o) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, err
		}

		header := s.header
		if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
			return nil, err
		}

		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}

			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return nil, fmt.Errorf("sheet %s, row %d: %w", s.name, r+2, err)
			}
		}
	}

	return f, nil
}

// Write renders the overview to w.
func Write(w io.Writer, o treasury.Overview) error {
	f, err := Workbook(o)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}
