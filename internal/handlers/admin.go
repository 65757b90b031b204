package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zaffira/internal/services"
)

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ListUsers pages only when page or limit is given.
func ListUsers(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/users"

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		users, total, err := accounts.ListUsers(c.Request.Context(), page, limit)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data": users,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

func UpdateUserRole(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/users/:id/role"

		var req roleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		user, err := accounts.UpdateRole(c.Request.Context(), c.Param("id"), req.Role)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func DashboardStats(dashboard *services.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := dashboard.Stats(c.Request.Context())
		if err != nil {
			respondError(c, "GET /admin/stats", err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
