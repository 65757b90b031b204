package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zaffira/internal/services"
)

// ListProducts filters by category, collections, minPrice and maxPrice,
// sorts by sortBy and caps the result at limit.
func ListProducts(products *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"

		var params services.CatalogParams
		if err := c.ShouldBindQuery(&params); err != nil {
			respondValidationError(c, err)
			return
		}

		list, err := products.List(c.Request.Context(), params)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetProduct(products *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"

		product, err := products.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func CreateProduct(products *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"

		user, ok := requireUser(c)
		if !ok {
			return
		}

		var req services.ProductInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		product, err := products.Create(c.Request.Context(), user.ID, req)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(products *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:id"

		var req services.ProductPatch
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		product, err := products.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(products *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products/:id"

		if err := products.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product removed"})
	}
}
