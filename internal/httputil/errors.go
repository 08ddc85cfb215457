package httputil

import "github.com/salonspa/backend/internal/models"

var (
	ErrInvalidBody        = models.NewValidationError("El cuerpo de la solicitud contiene datos inválidos o ilegibles")
	ErrRequestBodyEmpty   = models.NewValidationError("El cuerpo de la solicitud no puede estar vacío")
	ErrInvalidID          = models.NewValidationError("El identificador debe ser un número entero positivo")
	ErrInvalidQueryString = models.NewValidationError("Los parámetros de la consulta son inválidos")
)
