package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tuanvudang/equip-data-service/controller/dto"
	"github.com/tuanvudang/equip-data-service/service"
	"github.com/tuanvudang/equip-data-service/utils"
)

func (ctrl *Controller) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Account] Failed to bind Register request: %v", err)
		utils.JSON400(c, "Username and Password are required")
		return
	}

	user, err := ctrl.Service.Register(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Account] Register failed for %q: %v", req.Username, err)
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON201(c, gin.H{
		"message": "User created successfully",
		"data": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

func (ctrl *Controller) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Username and Password are required")
		return
	}

	token, user, err := ctrl.Service.Login(ctx, req.Username, req.Password)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Account] Login failed for %q: %v", req.Username, err)
		// Only bad credentials answer 401; an unreachable store must not.
		if errors.Is(err, service.ErrInvalidInput) {
			utils.JSON401(c, "Invalid credentials")
			return
		}
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON200(c, gin.H{
		"access_token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}
