package storefrontserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/http/mapper"
	catalogtypes "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

// ProductAPI serves the public catalog and the admin product screens.
type ProductAPI struct {
	service catalogports.Service
}

func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Get /api/products
// Lists products filtered by category and search term, sorted and paged.
func (api *ProductAPI) ListProducts(c *gin.Context) {
	pageSize, ok := queryInt(c, "pageSize")
	if !ok {
		return
	}
	pageNumber, ok := queryInt(c, "pageNumber")
	if !ok {
		return
	}
	input := catalogtypes.ListProductsInput{
		CategoryID: strings.TrimSpace(c.Query("categoryId")),
		Search:     c.Query("search"),
		SortBy:     c.Query("sortBy"),
		PageSize:   pageSize,
		PageNumber: pageNumber,
	}
	page, err := api.service.ListProducts(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, cataloghttpmapper.FromProductPage(page))
}

// Get /api/products/:productId
func (api *ProductAPI) GetProduct(c *gin.Context) {
	product, err := api.service.GetProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, cataloghttpmapper.FromDomainProduct(product))
}

// Post /api/admin/products
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload cataloghttpmapper.CreateProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := api.service.CreateProduct(c.Request.Context(), cataloghttpmapper.ToCreateProductInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, cataloghttpmapper.FromDomainProduct(product))
}

// Put /api/admin/products/:productId
// Stock is not part of the body; restock has its own route.
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	var payload cataloghttpmapper.UpdateProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := api.service.UpdateProduct(c.Request.Context(), cataloghttpmapper.ToUpdateProductInput(c.Param("productId"), payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, cataloghttpmapper.FromDomainProduct(product))
}

// Delete /api/admin/products/:productId
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	if err := api.service.DeleteProduct(c.Request.Context(), c.Param("productId")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "product deleted")
}

// CategoryAPI serves categories.
type CategoryAPI struct {
	service catalogports.Service
}

func NewCategoryAPI(service catalogports.Service) CategoryAPI {
	return CategoryAPI{service: service}
}

// Get /api/categories
func (api *CategoryAPI) ListCategories(c *gin.Context) {
	categories, err := api.service.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, cataloghttpmapper.FromDomainCategories(categories))
}

// Get /api/categories/:categoryId
func (api *CategoryAPI) GetCategory(c *gin.Context) {
	category, err := api.service.GetCategory(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, cataloghttpmapper.FromDomainCategory(category))
}

// Post /api/admin/categories
func (api *CategoryAPI) CreateCategory(c *gin.Context) {
	var payload cataloghttpmapper.CategoryBody
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := api.service.CreateCategory(c.Request.Context(), payload.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, cataloghttpmapper.FromDomainCategory(category))
}

// Put /api/admin/categories/:categoryId
func (api *CategoryAPI) UpdateCategory(c *gin.Context) {
	var payload cataloghttpmapper.CategoryBody
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := api.service.UpdateCategory(c.Request.Context(), c.Param("categoryId"), payload.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, cataloghttpmapper.FromDomainCategory(category))
}

// Delete /api/admin/categories/:categoryId
func (api *CategoryAPI) DeleteCategory(c *gin.Context) {
	if err := api.service.DeleteCategory(c.Request.Context(), c.Param("categoryId")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "category deleted")
}

// queryInt parses an optional integer query parameter. Zero means absent.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondProblem(c, badQueryProblem(name, raw))
		return 0, false
	}
	return value, true
}
