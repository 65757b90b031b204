package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zaffira/internal/services"
)

func Register(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users/register"

		var req services.RegisterInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		result, err := accounts.Register(c.Request.Context(), req)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func Login(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users/login"

		var req services.LoginInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		result, err := accounts.Login(c.Request.Context(), req)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func GetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := requireUser(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func UpdateProfile(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /users/profile"

		user, ok := requireUser(c)
		if !ok {
			return
		}

		var req services.ProfileUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updated, err := accounts.UpdateProfile(c.Request.Context(), user.ID, req)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func ForgotPassword(resets *services.PasswordResetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users/forgot-password"

		var req services.ForgotPasswordInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := resets.RequestReset(c.Request.Context(), req.Email); err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "reset code sent"})
	}
}

func ResetPassword(resets *services.PasswordResetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /users/reset-password"

		var req services.ResetPasswordInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := resets.ConfirmReset(c.Request.Context(), req); err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "password has been reset"})
	}
}
