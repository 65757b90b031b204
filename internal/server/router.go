// Package server assembles the gin engine.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zaffira/internal/handlers"
	"zaffira/internal/logger"
	"zaffira/internal/metrics"
	"zaffira/internal/middleware"
	"zaffira/internal/services"
)

// Deps is everything the routes need.
type Deps struct {
	Accounts      *services.AccountService
	Resets        *services.PasswordResetService
	Products      *services.ProductService
	Suppliers     *services.SupplierService
	Carts         *services.CartService
	Appointments  *services.AppointmentService
	Consultations *services.ConsultationService
	Dashboard     *services.DashboardService
	Images        *services.ImageService

	Health      gin.HandlerFunc
	Metrics     *metrics.HTTPMetrics
	Logger      *zap.Logger
	CORSOrigins []string
	// UploadDir is served under /uploads when images are stored locally.
	UploadDir string
}

// corsConfig allows credentials for listed origins. A lone "*" opens the
// API to every origin without credentials.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Guest-ID", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		logger.Middleware(d.Logger),
		middleware.Recovery(),
		d.Metrics.Middleware(),
		cors.New(corsConfig(d.CORSOrigins)),
	)

	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	authenticate := middleware.Authenticate(d.Accounts)
	optionalAuth := middleware.OptionalAuth(d.Accounts)
	adminOnly := []gin.HandlerFunc{authenticate, middleware.RequireAdmin()}

	r.GET("/health", d.Health)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	users := r.Group("/users")
	{
		users.POST("/register", handlers.Register(d.Accounts))
		users.POST("/login", handlers.Login(d.Accounts))
		users.POST("/forgot-password", handlers.ForgotPassword(d.Resets))
		users.POST("/reset-password", handlers.ResetPassword(d.Resets))
		users.GET("/profile", authenticate, handlers.GetProfile())
		users.PUT("/profile", authenticate, handlers.UpdateProfile(d.Accounts))
	}

	products := r.Group("/products")
	{
		products.GET("", handlers.ListProducts(d.Products))
		products.GET("/:id", handlers.GetProduct(d.Products))
		products.POST("", append(adminOnly, handlers.CreateProduct(d.Products))...)
		products.PUT("/:id", append(adminOnly, handlers.UpdateProduct(d.Products))...)
		products.DELETE("/:id", append(adminOnly, handlers.DeleteProduct(d.Products))...)
	}

	suppliers := r.Group("/suppliers")
	{
		suppliers.GET("", handlers.ListSuppliers(d.Suppliers))
		suppliers.GET("/:id", handlers.GetSupplier(d.Suppliers))
		suppliers.POST("", append(adminOnly, handlers.CreateSupplier(d.Suppliers))...)
		suppliers.PUT("/:id", append(adminOnly, handlers.UpdateSupplier(d.Suppliers))...)
		suppliers.DELETE("/:id", append(adminOnly, handlers.DeleteSupplier(d.Suppliers))...)
	}

	cart := r.Group("/cart", optionalAuth)
	{
		cart.GET("", handlers.GetCart(d.Carts))
		cart.POST("", handlers.AddToCart(d.Carts))
		cart.PUT("", handlers.UpdateCartItem(d.Carts))
		cart.DELETE("", handlers.RemoveFromCart(d.Carts))
		cart.DELETE("/all", handlers.ClearCart(d.Carts))
	}

	appointments := r.Group("/appointments")
	{
		appointments.POST("", optionalAuth, handlers.CreateAppointment(d.Appointments))
		appointments.GET("", authenticate, handlers.ListMyAppointments(d.Appointments))
		appointments.GET("/:id", authenticate, handlers.GetAppointment(d.Appointments))
	}

	consultations := r.Group("/consultations", authenticate)
	{
		consultations.POST("", handlers.CreateConsultation(d.Consultations))
		consultations.GET("", handlers.ListMyConsultations(d.Consultations))

		manage := consultations.Group("/admin", middleware.RequireAdmin())
		manage.GET("", handlers.ListAllConsultations(d.Consultations))
		manage.PUT("/:id", handlers.UpdateConsultationStatus(d.Consultations))
		manage.DELETE("/:id", handlers.DeleteConsultation(d.Consultations))
	}

	admin := r.Group("/admin", adminOnly...)
	{
		admin.GET("/appointments", handlers.ListAllAppointments(d.Appointments))
		admin.PUT("/appointments/:id", handlers.UpdateAppointmentStatus(d.Appointments))
		admin.DELETE("/appointments/:id", handlers.DeleteAppointment(d.Appointments))

		admin.GET("/users", handlers.ListUsers(d.Accounts))
		admin.PUT("/users/:id/role", handlers.UpdateUserRole(d.Accounts))
		admin.GET("/stats", handlers.DashboardStats(d.Dashboard))
		admin.POST("/uploads", handlers.UploadImage(d.Images))
	}

	return r
}
