package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zaffira/internal/services"
)

func CreateConsultation(consultations *services.ConsultationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /consultations"

		user, ok := requireUser(c)
		if !ok {
			return
		}

		var req services.ConsultationInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		consultation, err := consultations.Create(c.Request.Context(), user.ID, req)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, consultation)
	}
}

func ListMyConsultations(consultations *services.ConsultationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := requireUser(c)
		if !ok {
			return
		}
		list, err := consultations.ListForUser(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, "GET /consultations", err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func ListAllConsultations(consultations *services.ConsultationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := consultations.ListAll(c.Request.Context(), c.Query("status"))
		if err != nil {
			respondError(c, "GET /consultations/admin", err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func UpdateConsultationStatus(consultations *services.ConsultationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /consultations/admin/:id"

		var req services.StatusInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		consultation, err := consultations.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, consultation)
	}
}

func DeleteConsultation(consultations *services.ConsultationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := consultations.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, "DELETE /consultations/admin/:id", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "consultation removed"})
	}
}
