package expense

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/salonspa/backend/internal/models"
	"github.com/salonspa/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Input is an upsert request as sent by clients.
//
// Amounts, month and year are accepted as JSON numbers or numeric strings.
type Input struct {
	Category string          `json:"categoria" example:"Servicios"`
	Month    json.RawMessage `json:"mes,omitempty" swaggertype:"integer" example:"5"`
	Year     json.RawMessage `json:"anio,omitempty" swaggertype:"integer" example:"2024"`
	Amount   json.RawMessage `json:"monto,omitempty" swaggertype:"number" example:"1000"`
	Note     string          `json:"nota,omitempty" example:"Reparación de secador"`
	Items    []ItemInput     `json:"items,omitempty"` // Only used for Servicios
}

// ItemInput is one line of a Servicios upsert.
type ItemInput struct {
	Subcategory string          `json:"subcategoria" example:"Luz"`
	Amount      json.RawMessage `json:"monto" swaggertype:"number" example:"1000"`
	Note        string          `json:"nota,omitempty"`
}

// Payload is the category specific part of an upsert.
//
// It is implemented by ServiceLines, Miscellaneous and Fixed only.
type Payload interface {
	Category() models.ExpenseCategory
	isPayload()
}

// ServiceLines replaces all Servicios rows of a period.
type ServiceLines struct {
	Lines []ServiceLine
}

type ServiceLine struct {
	Subcategory string
	Amount      decimal.Decimal
	Note        string
}

// Miscellaneous appends one Otros row.
type Miscellaneous struct {
	Note   string
	Amount decimal.Decimal
}

// Fixed sets the single row of a Sueldos, Alquiler or Administrativo period.
type Fixed struct {
	Kind   models.ExpenseCategory
	Amount decimal.Decimal
	Note   string
}

func (ServiceLines) Category() models.ExpenseCategory  { return models.CategoryServices }
func (Miscellaneous) Category() models.ExpenseCategory { return models.CategoryOther }
func (f Fixed) Category() models.ExpenseCategory       { return f.Kind }

func (ServiceLines) isPayload()  {}
func (Miscellaneous) isPayload() {}
func (Fixed) isPayload()         {}

// Command is a validated upsert.
type Command struct {
	Period  types.Period
	Payload Payload
}

var errCategory = models.NewValidationError("Categoría inválida: debe ser una de Servicios, Sueldos, Alquiler, Administrativo u Otros")

// Parse validates the input. Missing month and year default to the period of now.
func (in Input) Parse(now time.Time) (Command, error) {
	category, ok := models.ParseExpenseCategory(in.Category)
	if !ok {
		return Command{}, errCategory
	}

	period, err := types.ParsePeriod(rawString(in.Month), rawString(in.Year), now)
	if err != nil {
		return Command{}, err
	}

	cmd := Command{Period: period}

	switch category {
	case models.CategoryServices:
		if len(in.Items) == 0 {
			return Command{}, models.NewValidationError("Servicios requiere al menos un ítem con subcategoría y monto")
		}

		lines := make([]ServiceLine, 0, len(in.Items))
		for i, item := range in.Items {
			subcategory := strings.TrimSpace(item.Subcategory)
			if subcategory == "" {
				return Command{}, models.NewValidationError("Ítem %d: la subcategoría es obligatoria", i+1)
			}

			amount, err := parseAmount(item.Amount)
			if err != nil {
				return Command{}, models.NewValidationError("Ítem %d: %s", i+1, err)
			}

			note := strings.TrimSpace(item.Note)
			if note == "" {
				note = strings.TrimSpace(in.Note)
			}

			lines = append(lines, ServiceLine{Subcategory: subcategory, Amount: amount, Note: note})
		}
		cmd.Payload = ServiceLines{Lines: lines}

	case models.CategoryOther:
		note := strings.TrimSpace(in.Note)
		if note == "" {
			return Command{}, models.NewValidationError("Otros requiere una nota que describa el gasto")
		}

		amount, err := parseAmount(in.Amount)
		if err != nil {
			return Command{}, models.NewValidationError("Monto inválido: %s", err)
		}
		cmd.Payload = Miscellaneous{Note: note, Amount: amount}

	default:
		amount, err := parseAmount(in.Amount)
		if err != nil {
			return Command{}, models.NewValidationError("Monto inválido: %s", err)
		}
		cmd.Payload = Fixed{Kind: category, Amount: amount, Note: strings.TrimSpace(in.Note)}
	}

	return cmd, nil
}

// rawString returns the string value of a raw JSON string or number.
func rawString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}

	return s
}

// parseAmount parses a finite, strictly positive amount that fits the
// money columns.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(rawString(raw))
	if s == "" {
		return decimal.Zero, fmt.Errorf("el monto es obligatorio")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q no es un número válido", s)
	}

	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("el monto debe ser mayor a cero")
	}

	if err := models.CheckAmount(amount); err != nil {
		return decimal.Zero, fmt.Errorf("el monto %w", err)
	}

	return amount, nil
}
