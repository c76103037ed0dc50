package http

import (
	"net/http"

	"post-archiver/domain/dto"
	"post-archiver/infrastructure/logger"
	"post-archiver/usecase"

	"github.com/gin-gonic/gin"
)

type IArchiveHandler interface {
	SubmitArchive(ctx *gin.Context)
	GetJobStatus(ctx *gin.Context)
	GetPlatforms(ctx *gin.Context)
}

type ArchiveHandler struct {
	archiveUsecase usecase.IArchiveUsecase
	platforms      []string
}

func NewArchiveHandler(uc usecase.IArchiveUsecase, platforms []string) IArchiveHandler {
	return &ArchiveHandler{archiveUsecase: uc, platforms: platforms}
}

func (h *ArchiveHandler) SubmitArchive(ctx *gin.Context) {
	var req dto.ArchiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if key := ctx.GetString("license_key"); key != "" {
		req.LicenseKey = key
	}

	accepted, err := h.archiveUsecase.Submit(ctx.Request.Context(), req)
	if err != nil {
		logger.GetLogger().WithField("url", req.URL).WithField("error", err).Warn("Archive submission rejected")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusAccepted, accepted)
}

func (h *ArchiveHandler) GetJobStatus(ctx *gin.Context) {
	jobID := ctx.Param("jobId")
	status, err := h.archiveUsecase.GetStatus(ctx.Request.Context(), jobID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, status)
}

func (h *ArchiveHandler) GetPlatforms(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"platforms": h.platforms})
}
