package httputil

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Report fields by their JSON name, clients never see the Go names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	}
}

// ValidationErrorToText returns a Spanish message for a failed binding tag.
func ValidationErrorToText(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", e.Field())
	case "max":
		return fmt.Sprintf("%s no puede superar %s", e.Field(), e.Param())
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s", e.Field(), e.Param())
	case "gt":
		return fmt.Sprintf("%s debe ser mayor a %s", e.Field(), e.Param())
	case "email":
		return "Formato de email inválido"
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", e.Field(), e.Param())
	}
	return fmt.Sprintf("%s no es válido", e.Field())
}
