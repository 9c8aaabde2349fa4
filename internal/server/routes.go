package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the trailer API and health routes
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	trailerGroup := router.Group("/api/Trailer")
	{
		trailerGroup.GET("/Trailers", handler.GetTrailers)
		trailerGroup.POST("/SendTrailer", handler.SendTrailer)
	}

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
}
