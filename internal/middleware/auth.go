package middleware

import (
	"errors"
	"net/http"

	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/lifecycle"
	"github.com/SeakMengs/AutoActa/internal/util"
	"github.com/gin-gonic/gin"
)

func (m Middleware) AuthMiddleware(ctx *gin.Context) {
	token, err := util.ReadBearerToken(ctx)
	if err != nil {
		m.app.Logger.Debugf("Failed to read token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return
	}

	claim, err := m.app.JWTService.VerifyJwtToken(token)
	if err != nil {
		m.app.Logger.Debugf("Failed to verify token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid token", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return
	}

	if claim.Type != constant.JWT_TYPE_ACCESS {
		m.app.Logger.Debugf("Invalid token type: %s", claim.Type)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid access token type", util.GenerateErrorMessages(errors.New("invalid token type"), "unauthorized"), nil)
		return
	}

	if !util.HasRole([]constant.ActorRole{claim.User.Role}, []constant.ActorRole{constant.ActorAdmin, constant.ActorSigner}) {
		m.app.Logger.Debugf("Unknown actor role: %s", claim.User.Role)
		util.ResponseFailed(ctx, http.StatusForbidden, "Unknown role", util.GenerateErrorMessages(errors.New("unknown actor role"), "role"), nil)
		return
	}

	ctx.Set(constant.ActorContextKey, lifecycle.Actor{
		ID:      claim.User.ID,
		Email:   claim.User.Email,
		Surname: claim.User.Surname,
		Name:    claim.User.Name,
		Role:    claim.User.Role,
	})
	ctx.Next()
}
