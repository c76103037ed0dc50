package http

import (
	"net/http"

	"post-archiver/domain/dto"
	"post-archiver/infrastructure/logger"
	"post-archiver/usecase"

	"github.com/gin-gonic/gin"
)

type IShareHandler interface {
	CreateShare(ctx *gin.Context)
	GetShare(ctx *gin.Context)
	DeleteShare(ctx *gin.Context)
	MigrateShare(ctx *gin.Context)
	CleanupShares(ctx *gin.Context)
}

type ShareHandler struct {
	shareUsecase usecase.IShareUsecase
}

func NewShareHandler(uc usecase.IShareUsecase) IShareHandler {
	return &ShareHandler{shareUsecase: uc}
}

func (h *ShareHandler) CreateShare(ctx *gin.Context) {
	var req dto.ShareCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := h.shareUsecase.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"id":        rec.ID,
		"tier":      rec.Tier,
		"expiresAt": rec.ExpiresAt,
	})
}

func (h *ShareHandler) GetShare(ctx *gin.Context) {
	id := ctx.Param("id")
	password := ctx.GetHeader("X-Share-Password")

	rec, err := h.shareUsecase.Get(ctx.Request.Context(), id, password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"id":        rec.ID,
		"content":   rec.Content,
		"metadata":  rec.Metadata,
		"tier":      rec.Tier,
		"viewCount": rec.ViewCount,
		"createdAt": rec.CreatedAt,
		"expiresAt": rec.ExpiresAt,
	})
}

func (h *ShareHandler) DeleteShare(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := h.shareUsecase.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": true, "id": id})
}

func (h *ShareHandler) MigrateShare(ctx *gin.Context) {
	id := ctx.Param("id")
	var req dto.ShareMigrateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := h.shareUsecase.MigrateTier(ctx.Request.Context(), id, req.From, req.To)
	if err != nil {
		logger.GetLogger().WithField("shareId", id).WithField("error", err).Warn("Share migration rejected")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"id":        rec.ID,
		"tier":      rec.Tier,
		"expiresAt": rec.ExpiresAt,
	})
}

// CleanupShares triggers an expired-share sweep (admin utility; a
// background ticker runs the same sweep on a schedule).
func (h *ShareHandler) CleanupShares(ctx *gin.Context) {
	report, err := h.shareUsecase.CleanupExpired(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}
