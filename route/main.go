package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tuanvudang/equip-data-service/controller"
	middlewares "github.com/tuanvudang/equip-data-service/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)
	r.GET("/healthz", ctrl.Health)

	apiRoutes := r.Group("/api/v1/equipment")
	{
		authRoutes := apiRoutes.Group("/auth")
		{
			authRoutes.POST("/register", ctrl.Register)
			authRoutes.POST("/login", ctrl.Login)
		}

		uploadRoutes := apiRoutes.Group("/uploads")
		{
			uploadRoutes.Use(middles.AuthMiddleware)

			uploadRoutes.POST("", ctrl.Upload)
			uploadRoutes.GET("", ctrl.History)
			uploadRoutes.GET("/:id/data", ctrl.DataDetail)
		}
	}

	return r
}
