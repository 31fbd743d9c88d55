package server

import "github.com/gin-gonic/gin"

// SetupRouter wires the API routes. environment "production" switches
// gin to release mode.
func SetupRouter(h *Handler, environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", h.Health)
	router.GET("/get_products", h.GetProducts)
	router.GET("/categories", h.GetCategories)

	return router
}
