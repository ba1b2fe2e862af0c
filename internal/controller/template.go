package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/util"
	"github.com/gin-gonic/gin"
)

type TemplateController struct {
	*baseController
}

const ErrInvalidRecordKind = "kind must be REGULAR or INTERIM"

// ListTemplates lists the active templates, narrowed to one record kind when ?kind= is given.
func (tc TemplateController) ListTemplates(ctx *gin.Context) {
	if _, ok := tc.mustActor(ctx); !ok {
		return
	}

	kind := constant.RecordKind(strings.ToUpper(strings.TrimSpace(ctx.Query("kind"))))

	var (
		templates []model.TemplateConfig
		err       error
	)
	switch kind {
	case "":
		templates, err = tc.app.Registry.List(ctx, true)
	case constant.RecordRegular, constant.RecordInterim:
		templates, err = tc.app.Registry.ListFor(ctx, kind)
	default:
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid record kind", util.GenerateErrorMessages(errors.New(ErrInvalidRecordKind), "kind"), nil)
		return
	}
	if err != nil {
		tc.respondError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"templates": templates,
	})
}
