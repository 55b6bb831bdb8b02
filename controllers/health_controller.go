package controllers

import "github.com/gin-gonic/gin"

type HealthControllerI interface {
	Root(ctx *gin.Context)
	IsRunning(ctx *gin.Context)
}

type healthController struct{}

var HealthController HealthControllerI = &healthController{}

func (h *healthController) Root(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "Altman Z-Score API", "version": "1.0.0"})
}

func (h *healthController) IsRunning(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"status": "healthy"})
}
