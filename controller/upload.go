package controller

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tuanvudang/equip-data-service/utils"
)

func ownerFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil, false
	}
	owner, ok := v.(uuid.UUID)
	return owner, ok
}

func (ctrl *Controller) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	owner, ok := ownerFromContext(c)
	if !ok {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, nil, "[Upload] user_id not found in context")
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSON400(c, "No file uploaded")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to open uploaded file")
		utils.JSON400(c, "Failed to read file: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to read uploaded file")
		utils.JSON400(c, "Failed to read file: "+err.Error())
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Upload] Received file '%s' (%d bytes) from owner %s",
		fileHeader.Filename, len(data), owner)

	rec, err := ctrl.Service.Ingest(ctx, owner, fileHeader.Filename, data)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] Ingest failed for owner %s: %v", owner, err)
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON201(c, rec)
}

func (ctrl *Controller) History(c *gin.Context) {
	ctx := c.Request.Context()

	owner, ok := ownerFromContext(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	records, err := ctrl.Service.History(ctx, owner)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[History] Listing failed for owner %s", owner)
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON200(c, records)
}

func (ctrl *Controller) DataDetail(c *gin.Context) {
	ctx := c.Request.Context()

	owner, ok := ownerFromContext(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	// An unparseable id answers like a missing record; ids are opaque to
	// clients.
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON404(c, "File not found")
		return
	}

	rows, err := ctrl.Service.DataDetail(ctx, owner, id)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[DataDetail] Fetch failed for record %s owner %s: %v", id, owner, err)
		ctrl.respondServiceError(c, err)
		return
	}

	utils.JSON200(c, rows)
}
