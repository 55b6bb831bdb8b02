package routes

import (
	"zscorebackend/controllers"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine, zscore controllers.ZScoreControllerI) {

	r.GET("/", controllers.HealthController.Root)
	r.GET("/health", controllers.HealthController.IsRunning)

	r.GET("/zscore/:company", zscore.GetZScore)
	r.POST("/zscore", zscore.PostZScore)
}
