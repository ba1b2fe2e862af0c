package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/lifecycle"
	"github.com/SeakMengs/AutoActa/internal/util"
	"github.com/gin-gonic/gin"
)

type RecordController struct {
	*baseController
}

const (
	ErrRecordIdRequired = "record id is required"
)

func (rc RecordController) recordID(ctx *gin.Context) (string, bool) {
	recordId := ctx.Params.ByName("recordId")
	if recordId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Record ID is required", util.GenerateErrorMessages(errors.New(ErrRecordIdRequired), "recordId"), nil)
		return "", false
	}
	return recordId, true
}

func (rc RecordController) ComposeDocument(ctx *gin.Context) {
	type Request struct {
		TypeKey       string   `json:"typeKey" binding:"required,strNotEmpty,cmin=3,cmax=100"`
		Considerandos []string `json:"considerandos" binding:"omitempty,max=50,dive,max=20000"`
	}
	var body Request

	actor, ok := rc.mustActor(ctx)
	if !ok {
		return
	}
	recordId, ok := rc.recordID(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		rc.app.Logger.Debug(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, util.GenerateErrorMessagesAsString(err, map[string]string{"TypeKey": "typeKey"}), util.GenerateErrorMessages(err, map[string]string{"TypeKey": "typeKey"}), nil)
		return
	}

	result, err := rc.app.Engine.Compose(ctx, lifecycle.ComposeRequest{
		RecordID:      recordId,
		TypeKey:       body.TypeKey,
		Considerandos: body.Considerandos,
		Actor:         actor,
	})
	if err != nil {
		rc.respondError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, result)
}

func (rc RecordController) ListDocuments(ctx *gin.Context) {
	actor, ok := rc.mustActor(ctx)
	if !ok {
		return
	}
	recordId, ok := rc.recordID(ctx)
	if !ok {
		return
	}

	documents, err := rc.app.Engine.ListDocuments(ctx, recordId, actor)
	if err != nil {
		rc.respondError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"documents": documents,
	})
}

// Placeholders previews the substitution values of a record, optionally for one signer.
func (rc RecordController) Placeholders(ctx *gin.Context) {
	actor, ok := rc.mustActor(ctx)
	if !ok {
		return
	}
	recordId, ok := rc.recordID(ctx)
	if !ok {
		return
	}

	if !actor.Can(constant.DocumentCompose) {
		rc.respondError(ctx, apperror.Forbidden("only administrators may preview placeholders"))
		return
	}

	var signerId *string
	if v := ctx.Query("signerId"); v != "" {
		signerId = &v
	}

	values, err := rc.app.Engine.Placeholders(ctx, recordId, signerId)
	if err != nil {
		rc.respondError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"placeholders": values,
	})
}

// Dossier streams the merged PDF. Folio ranges travel in the X-Dossier-Folios header.
func (rc RecordController) Dossier(ctx *gin.Context) {
	actor, ok := rc.mustActor(ctx)
	if !ok {
		return
	}
	recordId, ok := rc.recordID(ctx)
	if !ok {
		return
	}

	result, err := rc.app.Engine.BuildDossier(ctx, recordId, actor)
	if err != nil {
		rc.respondError(ctx, err)
		return
	}

	folios, err := json.Marshal(result.Folios)
	if err != nil {
		rc.respondError(ctx, err)
		return
	}

	ctx.Header("X-Dossier-Folios", string(folios))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="dossier-%s.pdf"`, util.SanitizeFileName(recordId)))
	ctx.Data(http.StatusOK, "application/pdf", result.PDF)
}

func (rc RecordController) ListDocumentLogs(ctx *gin.Context) {
	type Request struct {
		Page     uint `form:"page" binding:"omitempty,gte=1"`
		PageSize uint `form:"pageSize" binding:"omitempty,gte=1,lte=100"`
	}
	var query Request

	actor, ok := rc.mustActor(ctx)
	if !ok {
		return
	}
	recordId, ok := rc.recordID(ctx)
	if !ok {
		return
	}

	if !actor.IsAdmin() {
		rc.respondError(ctx, apperror.Forbidden("only administrators may read the document log"))
		return
	}

	if err := ctx.ShouldBindQuery(&query); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}
	if query.Page == 0 {
		query.Page = 1
	}
	if query.PageSize == 0 {
		query.PageSize = constant.DefaultPageSize
	}

	logs, total, err := rc.app.DocumentLogs.ListByRecord(ctx, nil, recordId, query.Page, query.PageSize)
	if err != nil {
		rc.respondError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"logs":       logs,
		"total":      total,
		"page":       query.Page,
		"pageSize":   query.PageSize,
		"totalPages": util.CalculateTotalPage(total, query.PageSize),
	})
}
