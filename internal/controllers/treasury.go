package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salonspa/backend/internal/auth"
	"github.com/salonspa/backend/internal/httputil"
	"github.com/salonspa/backend/internal/models"
	"github.com/salonspa/backend/internal/report"
)

// RegisterTreasuryRoutes registers the routes for treasury reports.
func (co Controller) RegisterTreasuryRoutes(r *gin.RouterGroup) {
	for path, handler := range map[string]gin.HandlerFunc{
		"/summary":  co.GetTreasurySummary,
		"/detail":   co.GetRevenueDetail,
		"/clients":  co.GetTopClients,
		"/products": co.GetTopProducts,
		"/entries":  co.GetTreasuryEntries,
		"/export":   co.ExportTreasury,
	} {
		r.OPTIONS(path, httputil.OptionsGet)
		r.GET(path, handler)
	}
}

// RegisterClientRoutes registers the routes for client reports.
func (co Controller) RegisterClientRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/summary", httputil.OptionsGet)
	r.GET("/summary", auth.RequireRole(models.RoleAdmin, models.RoleTreasurer), co.GetClientSummary)

	r.OPTIONS("/:id/detail", httputil.OptionsGet)
	r.GET("/:id/detail", co.GetClientDetail)
}

// GetTreasurySummary returns income, expenses and appointment counts
//
//	@Summary		Treasury summary
//	@Description	Returns the totals of all time or, if month or year are set, of one month
//	@Tags			Treasury
//	@Produce		json
//	@Success		200		{object}	treasury.PeriodSummary
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			month	query		int	false	"Month, 1 to 12"
//	@Param			year	query		int	false	"Year, 2020 to 3000"
//	@Security		BearerAuth
//	@Router			/treasury/summary [get]
func (co Controller) GetTreasurySummary(c *gin.Context) {
	filter, err := co.queryFilter(c)
	if err != nil {
		httpError(c, err)
		return
	}

	summary, err := co.Treasury.PeriodSummary(c.Request.Context(), filter)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetRevenueDetail returns revenue by weekday, employee and specialty
//
//	@Summary		Revenue detail
//	@Description	Returns the revenue of all completed appointments grouped by weekday, employee and specialty
//	@Tags			Treasury
//	@Produce		json
//	@Success		200	{object}	treasury.RevenueDetail
//	@Failure		500	{object}	httputil.HTTPError
//	@Security		BearerAuth
//	@Router			/treasury/detail [get]
func (co Controller) GetRevenueDetail(c *gin.Context) {
	detail, err := co.Treasury.RevenueDetail(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetTopClients returns the most frequent clients
//
//	@Summary		Frequent clients
//	@Description	Returns the clients with the most completed appointments
//	@Tags			Treasury
//	@Produce		json
//	@Success		200		{array}		treasury.ClientRanking
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			limit	query		int	false	"Number of clients, default 10"
//	@Security		BearerAuth
//	@Router			/treasury/clients [get]
func (co Controller) GetTopClients(c *gin.Context) {
	n, err := queryLimit(c)
	if err != nil {
		httpError(c, err)
		return
	}

	clients, err := co.Treasury.TopFrequentClients(c.Request.Context(), n)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetTopProducts returns the best selling products
//
//	@Summary		Best selling products
//	@Description	Returns the products with the highest quantity used in appointments
//	@Tags			Treasury
//	@Produce		json
//	@Success		200		{array}		treasury.ProductRanking
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			limit	query		int	false	"Number of products, default 10"
//	@Security		BearerAuth
//	@Router			/treasury/products [get]
func (co Controller) GetTopProducts(c *gin.Context) {
	n, err := queryLimit(c)
	if err != nil {
		httpError(c, err)
		return
	}

	products, err := co.Treasury.TopSellingProducts(c.Request.Context(), n)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetTreasuryEntries returns the treasury ledger
//
//	@Summary		Treasury entries
//	@Description	Returns the treasury entries, newest first. Purchases have a negative total.
//	@Tags			Treasury
//	@Produce		json
//	@Success		200		{array}		models.TreasuryEntry
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			month	query		int	false	"Month, 1 to 12"
//	@Param			year	query		int	false	"Year, 2020 to 3000"
//	@Security		BearerAuth
//	@Router			/treasury/entries [get]
func (co Controller) GetTreasuryEntries(c *gin.Context) {
	filter, err := co.queryFilter(c)
	if err != nil {
		httpError(c, err)
		return
	}

	query := co.DB.WithContext(c.Request.Context()).Order("date DESC, id DESC")
	if filter.Period != nil {
		loc := co.Treasury.Location()
		query = query.Where("date >= ? AND date < ?", filter.Period.Start(loc).UTC(), filter.Period.End(loc).UTC())
	}

	entries := []models.TreasuryEntry{}
	if err := query.Find(&entries).Error; err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// ExportTreasury returns all treasury reports as a workbook
//
//	@Summary		Export treasury
//	@Description	Returns an XLSX workbook with one sheet per report
//	@Tags			Treasury
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Success		200
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			month	query		int	false	"Month, 1 to 12"
//	@Param			year	query		int	false	"Year, 2020 to 3000"
//	@Security		BearerAuth
//	@Router			/treasury/export [get]
func (co Controller) ExportTreasury(c *gin.Context) {
	filter, err := co.queryFilter(c)
	if err != nil {
		httpError(c, err)
		return
	}

	overview, err := co.Treasury.Overview(c.Request.Context(), filter)
	if err != nil {
		httpError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, overview); err != nil {
		httpError(c, err)
		return
	}

	name := "tesoreria.xlsx"
	if filter.Period != nil {
		name = fmt.Sprintf("tesoreria-%s.xlsx", filter.Period)
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}

// GetClientSummary returns statistics per client
//
//	@Summary		Client summary
//	@Description	Returns completed appointments, total spent and first contact per client, ordered by name
//	@Tags			Clients
//	@Produce		json
//	@Success		200	{array}		treasury.ClientSummary
//	@Failure		500	{object}	httputil.HTTPError
//	@Security		BearerAuth
//	@Router			/clients/summary [get]
func (co Controller) GetClientSummary(c *gin.Context) {
	clients, err := co.Treasury.SummarizeClients(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClientDetail returns the completed appointments of a client
//
//	@Summary		Client detail
//	@Description	Returns the completed appointments of a client, newest first. Clients can only see their own appointments.
//	@Tags			Clients
//	@Produce		json
//	@Success		200	{array}		treasury.ClientAppointment
//	@Failure		400	{object}	httputil.HTTPError
//	@Failure		403	{object}	httputil.HTTPError
//	@Failure		500	{object}	httputil.HTTPError
//	@Param			id	path		int	true	"ID of the client"
//	@Security		BearerAuth
//	@Router			/clients/{id}/detail [get]
func (co Controller) GetClientDetail(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httpError(c, err)
		return
	}

	switch auth.Role(c) {
	case models.RoleAdmin, models.RoleTreasurer:
	default:
		if self, _ := auth.UserID(c); self != id {
			httpError(c, auth.ErrForbidden)
			return
		}
	}

	appointments, err := co.Treasury.ClientDetail(c.Request.Context(), id)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointments)
}
