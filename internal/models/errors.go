package models

import (
	"errors"
	"fmt"
)

var (
	ErrGeneral          = errors.New("ocurrió un error en el servidor durante su solicitud")
	ErrResourceNotFound = errors.New("no existe")
	ErrConflict         = errors.New("conflicto con un recurso existente")
	ErrValidation       = errors.New("los datos enviados no son válidos")
)

var (
	ErrUserEmailNotUnique     = fmt.Errorf("%w: ya existe un usuario con ese email", ErrConflict)
	ErrSupplierEmailNotUnique = fmt.Errorf("%w: ya existe un proveedor con ese email", ErrConflict)
	ErrInsufficientStock      = fmt.Errorf("%w: stock insuficiente", ErrConflict)
	ErrTreasuryEntryImmutable = fmt.Errorf("%w: los movimientos de tesorería no pueden modificarse", ErrConflict)
	ErrAppointmentChanged     = fmt.Errorf("%w: la cita cambió de estado durante la solicitud", ErrConflict)
)

// ValidationError is returned for input that is rejected before anything is written.
type ValidationError struct {
	Message string
}

// NewValidationError formats a ValidationError.
func NewValidationError(format string, args ...any) ValidationError {
	return ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e ValidationError) Error() string {
	return e.Message
}

// Is makes every ValidationError match ErrValidation.
func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}
