package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tuanvudang/equip-data-service/config"
	"github.com/tuanvudang/equip-data-service/infra"
	"github.com/tuanvudang/equip-data-service/service"
	"github.com/tuanvudang/equip-data-service/utils"
)

type Controller struct {
	Config  *config.Config
	Infra   *infra.Infra
	Service *service.Service
}

func NewController(config *config.Config, infra *infra.Infra, svc *service.Service) *Controller {
	if svc == nil {
		panic("Failed to initialize Service")
	}
	return &Controller{
		Config:  config,
		Infra:   infra,
		Service: svc,
	}
}

func (ctrl *Controller) Health(c *gin.Context) {
	utils.JSON200(c, gin.H{"status": "ok"})
}

// respondServiceError maps the service error kinds to HTTP status codes.
func (ctrl *Controller) respondServiceError(c *gin.Context, err error) {
	var schemaErr *service.SchemaError
	var procErr *service.ProcessingError

	switch {
	case errors.As(err, &schemaErr):
		c.JSON(400, gin.H{
			"error":           schemaErr.Error(),
			"missing_columns": schemaErr.Missing,
		})
	case errors.As(err, &procErr):
		utils.JSON500(c, procErr.Error())
	case errors.Is(err, service.ErrDuplicateUser):
		utils.JSON400(c, "Username already exists")
	case errors.Is(err, service.ErrInvalidInput):
		utils.JSON400(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.JSON404(c, "File not found")
	case errors.Is(err, service.ErrStorageFailure):
		utils.JSON503(c, "Storage temporarily unavailable")
	default:
		utils.JSON500(c, "Internal server error")
	}
}
