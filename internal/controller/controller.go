package controller

import (
	"errors"
	"net/http"

	appcontext "github.com/SeakMengs/AutoActa/internal/app_context"
	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/lifecycle"
	"github.com/SeakMengs/AutoActa/internal/util"
	"github.com/gin-gonic/gin"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	Index    *IndexController
	Template *TemplateController
	Record   *RecordController
	Document *DocumentController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	return &Controller{
		Index:    &IndexController{baseController: bc},
		Template: &TemplateController{baseController: bc},
		Record:   &RecordController{baseController: bc},
		Document: &DocumentController{baseController: bc},
	}
}

var errActorMissing = errors.New("actor not found in context")

func (b *baseController) getActor(ctx *gin.Context) (lifecycle.Actor, error) {
	value, exists := ctx.Get(constant.ActorContextKey)
	if !exists {
		return lifecycle.Actor{}, errActorMissing
	}

	actor, ok := value.(lifecycle.Actor)
	if !ok || actor.ID == "" {
		return lifecycle.Actor{}, errActorMissing
	}

	return actor, nil
}

// mustActor writes the 401 response itself when no actor is present.
func (b *baseController) mustActor(ctx *gin.Context) (lifecycle.Actor, bool) {
	actor, err := b.getActor(ctx)
	if err != nil {
		b.app.Logger.Debugf("Failed to get actor: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return lifecycle.Actor{}, false
	}
	return actor, true
}

func statusOf(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindDuplicateDocument, apperror.KindAlreadySigned,
		apperror.KindInvalidTransition, apperror.KindWrongState:
		return http.StatusConflict
	case apperror.KindNotConfigured, apperror.KindMalformedRules:
		return http.StatusUnprocessableEntity
	case apperror.KindInvalidRequest:
		return http.StatusBadRequest
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindRemoteUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError answers with the status of the error kind. Causes only reach the logs.
func (b *baseController) respondError(ctx *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		b.app.Logger.Errorw("request failed", "path", ctx.FullPath(), "error", err)
	} else {
		b.app.Logger.Debugw("request rejected", "path", ctx.FullPath(), "error", err)
	}

	if apperror.KindOf(err) == "" {
		err = errors.New(apperror.MessageOf(err))
	}
	util.ResponseFailed(ctx, status, apperror.MessageOf(err), util.GenerateErrorMessages(err), nil)
}
