package httputil

import (
	"github.com/gin-gonic/gin"
)

// HTTPError is used for error responses that contain a body.
type HTTPError struct {
	Message string `json:"message" example:"Mes inválido: debe ser un número entero entre 1 y 12"`
}

// NewError writes the error as JSON response.
func NewError(c *gin.Context, status int, err error) {
	c.JSON(status, HTTPError{
		Message: err.Error(),
	})
}

// AbortWithError writes the error as JSON response and stops the handler chain.
func AbortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, HTTPError{
		Message: err.Error(),
	})
}
