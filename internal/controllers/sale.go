package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salonspa/backend/internal/auth"
	"github.com/salonspa/backend/internal/httputil"
	"github.com/salonspa/backend/internal/models"
	"github.com/salonspa/backend/internal/sales"
)

// RegisterAppointmentRoutes registers the routes for appointments.
func (co Controller) RegisterAppointmentRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsPost)
	r.POST("", co.CreateAppointment)

	r.OPTIONS("/:id/status", httputil.OptionsPatch)
	r.PATCH("/:id/status", auth.RequireRole(models.RoleAdmin, models.RoleEmployee), co.UpdateAppointmentStatus)
}

// RegisterSaleRoutes registers the routes for walk-in sales.
func (co Controller) RegisterSaleRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsPost)
	r.POST("", co.CreateSale)
}

// RegisterPurchaseRoutes registers the routes for supplier purchases.
func (co Controller) RegisterPurchaseRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsPost)
	r.POST("", co.CreatePurchase)
}

// CreateAppointment books an appointment
//
//	@Summary		Book appointment
//	@Description	Books an appointment. Clients always book for themselves.
//	@Tags			Appointments
//	@Produce		json
//	@Success		201			{object}	models.Appointment
//	@Failure		400			{object}	httputil.HTTPError
//	@Failure		404			{object}	httputil.HTTPError
//	@Failure		500			{object}	httputil.HTTPError
//	@Param			appointment	body		sales.Booking	true	"Appointment"
//	@Security		BearerAuth
//	@Router			/appointments [post]
func (co Controller) CreateAppointment(c *gin.Context) {
	var booking sales.Booking
	if err := httputil.BindData(c, &booking); err != nil {
		httpError(c, err)
		return
	}

	if auth.Role(c) == models.RoleClient {
		booking.ClientID, _ = auth.UserID(c)
	}

	appointment, err := co.Sales.Book(c.Request.Context(), booking)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// UpdateAppointmentStatus changes the status of an appointment
//
//	@Summary		Update appointment status
//	@Description	Completing an appointment records its income and takes its products out of stock.
//	@Description	Completed and cancelled appointments cannot change.
//	@Tags			Appointments
//	@Produce		json
//	@Success		200		{object}	models.Appointment
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		404		{object}	httputil.HTTPError
//	@Failure		409		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			id		path		int				true	"ID of the appointment"
//	@Param			status	body		StatusEditable	true	"New status"
//	@Security		BearerAuth
//	@Router			/appointments/{id}/status [patch]
func (co Controller) UpdateAppointmentStatus(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httpError(c, err)
		return
	}

	var editable StatusEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httpError(c, err)
		return
	}

	appointment, err := co.Sales.SetStatus(c.Request.Context(), id, editable.Status)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// CreateSale records a walk-in sale
//
//	@Summary		Create sale
//	@Description	Sells products without an appointment. Fails without changes if any product is out of stock.
//	@Tags			Sales
//	@Produce		json
//	@Success		201		{object}	models.TreasuryEntry
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		404		{object}	httputil.HTTPError
//	@Failure		409		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			sale	body		sales.Sale	true	"Sale"
//	@Security		BearerAuth
//	@Router			/sales [post]
func (co Controller) CreateSale(c *gin.Context) {
	var sale sales.Sale
	if err := httputil.BindData(c, &sale); err != nil {
		httpError(c, err)
		return
	}

	entry, err := co.Sales.Sell(c.Request.Context(), sale)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// CreatePurchase records a supplier delivery
//
//	@Summary		Create purchase
//	@Description	Adds the delivered quantity to the stock and records the cost as a negative treasury entry
//	@Tags			Sales
//	@Produce		json
//	@Success		201			{object}	models.Purchase
//	@Failure		400			{object}	httputil.HTTPError
//	@Failure		404			{object}	httputil.HTTPError
//	@Failure		500			{object}	httputil.HTTPError
//	@Param			purchase	body		sales.Delivery	true	"Purchase"
//	@Security		BearerAuth
//	@Router			/purchases [post]
func (co Controller) CreatePurchase(c *gin.Context) {
	var delivery sales.Delivery
	if err := httputil.BindData(c, &delivery); err != nil {
		httpError(c, err)
		return
	}

	purchase, err := co.Sales.Purchase(c.Request.Context(), delivery)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusCreated, purchase)
}
