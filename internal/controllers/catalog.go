package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"github.com/salonspa/backend/internal/auth"
	"github.com/salonspa/backend/internal/httputil"
	"github.com/salonspa/backend/internal/models"
	"golang.org/x/text/cases"
)

var admin = auth.RequireRole(models.RoleAdmin)

// RegisterServiceRoutes registers the routes for services.
func (co Controller) RegisterServiceRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetServices)
	r.POST("", admin, co.CreateService)
}

// RegisterProductRoutes registers the routes for products.
func (co Controller) RegisterProductRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetProducts)
	r.POST("", admin, co.CreateProduct)
}

// RegisterSupplierRoutes registers the routes for suppliers.
func (co Controller) RegisterSupplierRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetSuppliers)
	r.POST("", admin, co.CreateSupplier)
}

// GetServices returns all services
//
//	@Summary		Get services
//	@Description	Returns all services ordered by name
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{array}		models.Service
//	@Failure		500	{object}	httputil.HTTPError
//	@Security		BearerAuth
//	@Router			/services [get]
func (co Controller) GetServices(c *gin.Context) {
	services := []models.Service{}
	if err := co.DB.WithContext(c.Request.Context()).Order("name ASC, id ASC").Find(&services).Error; err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, services)
}

// CreateService creates a service
//
//	@Summary		Create service
//	@Description	Creates a new service
//	@Tags			Catalog
//	@Produce		json
//	@Success		201		{object}	models.Service
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			service	body		ServiceEditable	true	"Service"
//	@Security		BearerAuth
//	@Router			/services [post]
func (co Controller) CreateService(c *gin.Context) {
	var editable ServiceEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httpError(c, err)
		return
	}

	service, err := editable.model()
	if err != nil {
		httpError(c, err)
		return
	}

	if err := co.DB.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetProducts returns all products
//
//	@Summary		Get products
//	@Description	Returns all products ordered by name, optionally filtered by a name pattern
//	@Tags			Catalog
//	@Produce		json
//	@Success		200		{array}		models.Product
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			name	query		string	false	"Glob pattern for the name, e.g. Tint*"
//	@Security		BearerAuth
//	@Router			/products [get]
func (co Controller) GetProducts(c *gin.Context) {
	var filter ProductQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httpError(c, httputil.ErrInvalidQueryString)
		return
	}

	products := []models.Product{}
	if err := co.DB.WithContext(c.Request.Context()).Order("name ASC, id ASC").Find(&products).Error; err != nil {
		httpError(c, err)
		return
	}

	if filter.Name != "" {
		fold := cases.Fold()
		pattern := fold.String(strings.TrimSpace(filter.Name))

		matching := make([]models.Product, 0, len(products))
		for _, p := range products {
			if glob.Glob(pattern, fold.String(p.Name)) {
				matching = append(matching, p)
			}
		}
		products = matching
	}

	c.JSON(http.StatusOK, products)
}

// CreateProduct creates a product
//
//	@Summary		Create product
//	@Description	Creates a new product
//	@Tags			Catalog
//	@Produce		json
//	@Success		201		{object}	models.Product
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			product	body		ProductEditable	true	"Product"
//	@Security		BearerAuth
//	@Router			/products [post]
func (co Controller) CreateProduct(c *gin.Context) {
	var editable ProductEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httpError(c, err)
		return
	}

	product, err := editable.model()
	if err != nil {
		httpError(c, err)
		return
	}

	if err := co.DB.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetSuppliers returns all suppliers
//
//	@Summary		Get suppliers
//	@Description	Returns all suppliers ordered by name
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{array}		models.Supplier
//	@Failure		500	{object}	httputil.HTTPError
//	@Security		BearerAuth
//	@Router			/suppliers [get]
func (co Controller) GetSuppliers(c *gin.Context) {
	suppliers := []models.Supplier{}
	if err := co.DB.WithContext(c.Request.Context()).Order("name ASC, id ASC").Find(&suppliers).Error; err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, suppliers)
}

// CreateSupplier creates a supplier
//
//	@Summary		Create supplier
//	@Description	Creates a new supplier. The email must be unique.
//	@Tags			Catalog
//	@Produce		json
//	@Success		201			{object}	models.Supplier
//	@Failure		400			{object}	httputil.HTTPError
//	@Failure		409			{object}	httputil.HTTPError
//	@Failure		500			{object}	httputil.HTTPError
//	@Param			supplier	body		SupplierEditable	true	"Supplier"
//	@Security		BearerAuth
//	@Router			/suppliers [post]
func (co Controller) CreateSupplier(c *gin.Context) {
	var editable SupplierEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httpError(c, err)
		return
	}

	supplier := editable.model()
	if err := co.DB.WithContext(c.Request.Context()).Create(&supplier).Error; err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusCreated, supplier)
}
