package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zaffira/internal/middleware"
	"zaffira/internal/services"
)

const guestIDHeader = "X-Guest-ID"

// cartKey prefers the authenticated user. A guest id is taken from the
// body, then the query string, then the X-Guest-ID header.
func cartKey(c *gin.Context, bodyGuestID string) services.CartKey {
	if user, ok := middleware.CurrentUser(c); ok {
		id := user.ID
		return services.CartKey{UserID: &id}
	}
	for _, candidate := range []string{bodyGuestID, c.Query("guestId"), c.GetHeader(guestIDHeader)} {
		if guest := strings.TrimSpace(candidate); guest != "" {
			return services.CartKey{GuestID: guest}
		}
	}
	return services.CartKey{}
}

func GetCart(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Get(c.Request.Context(), cartKey(c, ""))
		if err != nil {
			respondError(c, "GET /cart", err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func AddToCart(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart"

		var req services.AddItemInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		cart, err := carts.AddItem(c.Request.Context(), cartKey(c, req.GuestID), req.ProductID, req.RequestedQuantity())
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func UpdateCartItem(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart"

		var req services.SetQuantityInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		quantity, err := req.RequestedQuantity()
		if err != nil {
			respondError(c, route, err)
			return
		}

		cart, err := carts.SetItemQuantity(c.Request.Context(), cartKey(c, req.GuestID), req.ProductID, quantity)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func RemoveFromCart(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"

		var req services.RemoveItemInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		cart, err := carts.RemoveItem(c.Request.Context(), cartKey(c, req.GuestID), req.ProductID)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func ClearCart(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Clear(c.Request.Context(), cartKey(c, ""))
		if err != nil {
			respondError(c, "DELETE /cart/all", err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}
