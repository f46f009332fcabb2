package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	// Swagger UI
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// SearchProducts godoc
// @Summary Search the catalog
// @Description Search products by keyword and price range. All filters combine with AND; without filters the full catalog is returned.
// @Tags Products
// @Produce json
// @Param q query string false "Keyword matched against title and brand (case-insensitive)"
// @Param min_price query number false "Inclusive minimum price"
// @Param max_price query number false "Inclusive maximum price"
// @Param category query string false "Category filter (reserved)"
// @Param page query int false "Page number (reserved)"
// @Success 200 {object} object{success=bool,data=object{products=array,count=int}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/products [get]
func (h *CatalogHandler) SearchProductsDoc() {}

// GetFeatured godoc
// @Summary Get featured products
// @Description Get the catalog's featured products (the first N in catalog order)
// @Tags Products
// @Produce json
// @Param count query int false "Number of products to return (default 4)"
// @Success 200 {object} object{success=bool,data=object{products=array,count=int}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/products/featured [get]
func (h *CatalogHandler) GetFeaturedDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Description Get a specific product by its marketplace identifier
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/products/{id} [get]
func (h *CatalogHandler) GetProductDoc() {}

// GetStats godoc
// @Summary Get catalog statistics
// @Description Get catalog statistics (totals, average price, brand count)
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/products/stats [get]
func (h *CatalogHandler) GetStatsDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and report the loaded catalog size
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string,data=object{catalog_size=int}}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *CatalogHandler) HealthCheckDoc() {}
