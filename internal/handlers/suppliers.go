package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zaffira/internal/services"
)

func ListSuppliers(suppliers *services.SupplierService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := suppliers.List(c.Request.Context())
		if err != nil {
			respondError(c, "GET /suppliers", err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetSupplier(suppliers *services.SupplierService) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplier, err := suppliers.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, "GET /suppliers/:id", err)
			return
		}
		c.JSON(http.StatusOK, supplier)
	}
}

func CreateSupplier(suppliers *services.SupplierService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := requireUser(c)
		if !ok {
			return
		}

		var req services.SupplierInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		supplier, err := suppliers.Create(c.Request.Context(), user.ID, req)
		if err != nil {
			respondError(c, "POST /suppliers", err)
			return
		}
		c.JSON(http.StatusCreated, supplier)
	}
}

func UpdateSupplier(suppliers *services.SupplierService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.SupplierPatch
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		supplier, err := suppliers.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, "PUT /suppliers/:id", err)
			return
		}
		c.JSON(http.StatusOK, supplier)
	}
}

func DeleteSupplier(suppliers *services.SupplierService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := suppliers.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, "DELETE /suppliers/:id", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "supplier removed"})
	}
}
