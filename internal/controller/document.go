package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/SeakMengs/AutoActa/internal/lifecycle"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/util"
	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	*baseController
}

const (
	ErrDocumentIdRequired = "document id is required"
	ErrSignedFileRequired = "signed file is required"
	ErrSignedFileTooLarge = "signed file must be at most 25 MB"

	maxSignedFileSize = 25 << 20
)

type documentHandler func(ctx *gin.Context, documentId string, actor lifecycle.Actor) (model.GeneratedDocument, error)

func (dc DocumentController) documentID(ctx *gin.Context) (string, bool) {
	documentId := ctx.Params.ByName("documentId")
	if documentId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Document ID is required", util.GenerateErrorMessages(errors.New(ErrDocumentIdRequired), "documentId"), nil)
		return "", false
	}
	return documentId, true
}

// transition wraps the engine operations that only need the document and the actor.
func (dc DocumentController) transition(fn documentHandler) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor, ok := dc.mustActor(ctx)
		if !ok {
			return
		}
		documentId, ok := dc.documentID(ctx)
		if !ok {
			return
		}

		doc, err := fn(ctx, documentId, actor)
		if err != nil {
			dc.respondError(ctx, err)
			return
		}

		util.ResponseSuccess(ctx, gin.H{
			"document": doc,
		})
	}
}

func (dc DocumentController) GetDocument(ctx *gin.Context) {
	actor, ok := dc.mustActor(ctx)
	if !ok {
		return
	}
	documentId, ok := dc.documentID(ctx)
	if !ok {
		return
	}

	doc, err := dc.app.Engine.GetDocument(ctx, documentId, actor)
	if err != nil {
		dc.respondError(ctx, err)
		return
	}

	viewUrl := ""
	fileId := doc.FinalFileRef
	if fileId == nil {
		fileId = doc.DraftFileRef
	}
	if fileId != nil {
		viewUrl, err = dc.app.Blobs.ViewURL(ctx, *fileId)
		if err != nil {
			// The row is still useful without a link.
			dc.app.Logger.Warnw("failed to resolve view url", "documentId", doc.ID, "error", err)
			viewUrl = ""
		}
	}

	util.ResponseSuccess(ctx, gin.H{
		"document": doc,
		"viewUrl":  viewUrl,
	})
}

func (dc DocumentController) SendForSignature(ctx *gin.Context) {
	type Request struct {
		RecipientUserID string `json:"recipientUserId" binding:"omitempty,max=100"`
		RecipientEmail  string `json:"recipientEmail" binding:"omitempty,email"`
		RecipientName   string `json:"recipientName" binding:"omitempty,cmax=200"`
	}
	var body Request

	actor, ok := dc.mustActor(ctx)
	if !ok {
		return
	}
	documentId, ok := dc.documentID(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, util.GenerateErrorMessagesAsString(err, nil), util.GenerateErrorMessages(err), nil)
		return
	}

	doc, err := dc.app.Engine.SendForSignature(ctx, lifecycle.SendRequest{
		DocumentID:      documentId,
		RecipientUserID: body.RecipientUserID,
		RecipientEmail:  body.RecipientEmail,
		RecipientName:   body.RecipientName,
		Actor:           actor,
	})
	if err != nil {
		dc.respondError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"document": doc,
	})
}

func (dc DocumentController) OpenForSignature(ctx *gin.Context) {
	dc.transition(func(ctx *gin.Context, documentId string, actor lifecycle.Actor) (model.GeneratedDocument, error) {
		return dc.app.Engine.OpenForSignature(ctx, documentId, actor)
	})(ctx)
}

// UploadSigned takes the signed PDF from the multipart field "file".
func (dc DocumentController) UploadSigned(ctx *gin.Context) {
	actor, ok := dc.mustActor(ctx)
	if !ok {
		return
	}
	documentId, ok := dc.documentID(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "No signed file uploaded", util.GenerateErrorMessages(errors.New(ErrSignedFileRequired), "file"), nil)
		return
	}
	if file.Size > maxSignedFileSize {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Signed file too large", util.GenerateErrorMessages(errors.New(ErrSignedFileTooLarge), "file"), nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		dc.respondError(ctx, err)
		return
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, maxSignedFileSize+1))
	if err != nil {
		dc.respondError(ctx, err)
		return
	}
	if len(content) > maxSignedFileSize {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Signed file too large", util.GenerateErrorMessages(errors.New(ErrSignedFileTooLarge), "file"), nil)
		return
	}

	doc, err := dc.app.Engine.UploadSigned(ctx, lifecycle.UploadRequest{
		DocumentID: documentId,
		FileName:   util.SanitizeFileName(file.Filename),
		Content:    content,
		Actor:      actor,
	})
	if err != nil {
		dc.respondError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"document": doc,
	})
}

func (dc DocumentController) Sign(ctx *gin.Context) {
	dc.transition(func(ctx *gin.Context, documentId string, actor lifecycle.Actor) (model.GeneratedDocument, error) {
		return dc.app.Engine.MemberSign(ctx, documentId, actor)
	})(ctx)
}

func (dc DocumentController) AdminSign(ctx *gin.Context) {
	dc.transition(func(ctx *gin.Context, documentId string, actor lifecycle.Actor) (model.GeneratedDocument, error) {
		return dc.app.Engine.AdminDirectSign(ctx, documentId, actor)
	})(ctx)
}

func (dc DocumentController) ResetToDraft(ctx *gin.Context) {
	dc.transition(func(ctx *gin.Context, documentId string, actor lifecycle.Actor) (model.GeneratedDocument, error) {
		return dc.app.Engine.ResetToDraft(ctx, documentId, actor)
	})(ctx)
}

func (dc DocumentController) DeleteDraft(ctx *gin.Context) {
	actor, ok := dc.mustActor(ctx)
	if !ok {
		return
	}
	documentId, ok := dc.documentID(ctx)
	if !ok {
		return
	}

	if err := dc.app.Engine.DeleteDraft(ctx, documentId, actor); err != nil {
		dc.respondError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"deleted": documentId,
	})
}

func (dc DocumentController) VerifyDocument(ctx *gin.Context) {
	actor, ok := dc.mustActor(ctx)
	if !ok {
		return
	}
	documentId, ok := dc.documentID(ctx)
	if !ok {
		return
	}

	result, err := dc.app.Engine.VerifyDocument(ctx, documentId, actor)
	if err != nil {
		dc.respondError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, result)
}
