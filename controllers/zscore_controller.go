package controllers

import (
	"errors"
	"net/http"
	"zscorebackend/services"
	"zscorebackend/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ZScoreControllerI interface {
	GetZScore(ctx *gin.Context)
	PostZScore(ctx *gin.Context)
}

type zscoreController struct {
	service *services.ZScoreService
}

func NewZScoreController(service *services.ZScoreService) ZScoreControllerI {
	return &zscoreController{service: service}
}

// statusForError maps the pipeline's error taxonomy onto HTTP statuses.
// Data-quality failures (422) tell the caller the filing is unusable;
// upstream failures (502) mean try again later.
func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrCompanyNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrFilingUnavailable):
		return http.StatusNotFound
	case errors.Is(err, types.ErrMissingLineItem),
		errors.Is(err, types.ErrMalformedFiling),
		errors.Is(err, types.ErrDivisionUndefined):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrQuoteUnavailable),
		errors.Is(err, types.ErrSourceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (z *zscoreController) compute(ctx *gin.Context, company string) {
	result, err := z.service.GetZScore(ctx.Request.Context(), company)
	if err != nil {
		zap.L().Error("Z-score computation failed", zap.String("company", company), zap.Error(err))
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (z *zscoreController) GetZScore(ctx *gin.Context) {
	company := ctx.Param("company")
	if company == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Company name or ticker is required"})
		return
	}
	z.compute(ctx, company)
}

func (z *zscoreController) PostZScore(ctx *gin.Context) {
	var request types.ZScoreRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Company name or ticker is required"})
		return
	}
	z.compute(ctx, request.Company)
}
