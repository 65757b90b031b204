package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"zaffira/internal/database"
	"zaffira/internal/logger"
)

func Health(db *mongo.Database) gin.HandlerFunc {
	return healthCheck(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	})
}

func healthCheck(ping func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ping(c.Request.Context()); err != nil {
			logger.FromGin(c).Warn("database ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
