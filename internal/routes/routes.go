package routes

import (
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"

	_ "carebook_backend/docs"
	"carebook_backend/internal/handlers"
	"carebook_backend/internal/logger"
)

// RegisterRoutes registers every HTTP route of the API.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.PlanHandler.RegisterRoutes(api)
		appHandlers.MembershipHandler.RegisterRoutes(api)
		appHandlers.BookingHandler.RegisterRoutes(api)
	}

	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	logger.Info("Routes registered", "base_path", "/api/v1")
}
