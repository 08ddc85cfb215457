// Package controllers implements the HTTP handlers of the API.
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/salonspa/backend/internal/auth"
	"github.com/salonspa/backend/internal/expense"
	"github.com/salonspa/backend/internal/httputil"
	"github.com/salonspa/backend/internal/models"
	"github.com/salonspa/backend/internal/sales"
	"github.com/salonspa/backend/internal/suggestion"
	"github.com/salonspa/backend/internal/treasury"
	"github.com/salonspa/backend/internal/types"
	"gorm.io/gorm"
)

type Controller struct {
	DB          *gorm.DB
	Expenses    *expense.Service
	Sales       *sales.Service
	Treasury    *treasury.Aggregator
	Suggestions suggestion.Store
	Tokens      *auth.Issuer
}

// New returns a Controller with all services backed by db. Suggestions are
// stored in db, too.
func New(db *gorm.DB, tokens *auth.Issuer, loc *time.Location, includeOutflows bool) Controller {
	return Controller{
		DB:          db,
		Expenses:    expense.NewService(db),
		Sales:       sales.NewService(db),
		Treasury:    treasury.New(treasury.NewGormSource(db, loc), treasury.WithLocation(loc), treasury.WithIncludeOutflows(includeOutflows)),
		Suggestions: suggestion.NewDBStore(db),
		Tokens:      tokens,
	}
}

// status returns the appropriate HTTP status for an error
func status(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// httpError writes the error response for err.
//
// Unexpected errors are logged, the response only has the general message
// and the request ID.
func httpError(c *gin.Context, err error) {
	s := status(err)
	if s == http.StatusInternalServerError {
		id := requestid.Get(c)
		log.Error().Str("request-id", id).Msgf("%T: %v", err, err.Error())
		err = fmt.Errorf("%w (id de solicitud: %s)", models.ErrGeneral, id)
	}

	httputil.NewError(c, s, err)
}

var errInvalidLimit = models.NewValidationError("El parámetro limit debe ser un número entero positivo")

// queryLimit parses the limit query parameter. It returns 0 if it is not set.
func queryLimit(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errInvalidLimit
	}

	return n, nil
}

// queryPeriod parses the month and year query parameters. Missing values
// default to the current month and year.
func (co Controller) queryPeriod(c *gin.Context) (types.Period, error) {
	return types.ParsePeriod(c.Query("month"), c.Query("year"), co.Expenses.Now())
}

// queryFilter returns a filter for the period in the query string. If
// neither month nor year are set, the filter covers all time.
func (co Controller) queryFilter(c *gin.Context) (treasury.Filter, error) {
	if c.Query("month") == "" && c.Query("year") == "" {
		return treasury.Filter{}, nil
	}

	p, err := co.queryPeriod(c)
	if err != nil {
		return treasury.Filter{}, err
	}

	return treasury.Filter{Period: &p}, nil
}
