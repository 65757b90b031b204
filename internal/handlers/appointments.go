package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"zaffira/internal/middleware"
	"zaffira/internal/services"
)

// CreateAppointment books from the caller's cart, or from the guest cart
// named by guestId when the request is anonymous.
func CreateAppointment(appointments *services.AppointmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /appointments"

		var req services.AppointmentInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var userID *primitive.ObjectID
		if user, ok := middleware.CurrentUser(c); ok {
			id := user.ID
			userID = &id
		} else if req.GuestID == "" {
			req.GuestID = cartKey(c, "").GuestID
		}

		appointment, err := appointments.Create(c.Request.Context(), userID, req)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, appointment)
	}
}

func ListMyAppointments(appointments *services.AppointmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := requireUser(c)
		if !ok {
			return
		}
		list, err := appointments.ListForUser(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, "GET /appointments", err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetAppointment(appointments *services.AppointmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := requireUser(c)
		if !ok {
			return
		}
		requester := services.Requester{ID: user.ID, IsAdmin: user.IsAdmin()}
		appointment, err := appointments.Get(c.Request.Context(), c.Param("id"), requester)
		if err != nil {
			respondError(c, "GET /appointments/:id", err)
			return
		}
		c.JSON(http.StatusOK, appointment)
	}
}

func ListAllAppointments(appointments *services.AppointmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := appointments.ListAll(c.Request.Context(), c.Query("status"))
		if err != nil {
			respondError(c, "GET /admin/appointments", err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func UpdateAppointmentStatus(appointments *services.AppointmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/appointments/:id"

		var req services.StatusInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		appointment, err := appointments.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, appointment)
	}
}

func DeleteAppointment(appointments *services.AppointmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := appointments.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, "DELETE /admin/appointments/:id", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "appointment removed"})
	}
}
