package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petmily/petboard/models"
	"github.com/petmily/petboard/utils"
)

// LikeController exposes the like toggle for posts and comments. Both
// target kinds share one ledger; only the target dispatch differs.
type LikeController struct {
	db *gorm.DB
}

// NewLikeController creates a new LikeController instance.
func NewLikeController(db *gorm.DB) *LikeController {
	return &LikeController{db: db}
}

// TogglePostLike flips the caller's like on a post.
func (l *LikeController) TogglePostLike(ctx *gin.Context) {
	l.toggle(ctx, models.LikeTargetPost, ctx.Param("id"), 40401, "post not found")
}

// ToggleCommentLike flips the caller's like on a comment.
func (l *LikeController) ToggleCommentLike(ctx *gin.Context) {
	l.toggle(ctx, models.LikeTargetComment, ctx.Param("commentId"), 40420, "comment not found")
}

func (l *LikeController) toggle(ctx *gin.Context, targetType, idParam string, notFoundCode int, notFoundMsg string) {
	targetID, ok := parseID(idParam)
	if !ok {
		utils.Error(ctx, http.StatusNotFound, notFoundCode, notFoundMsg)
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	liked, count, err := models.ToggleLike(l.db, userID, targetType, targetID)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, notFoundCode, notFoundMsg)
		return
	case errors.Is(err, models.ErrConflict):
		utils.Error(ctx, http.StatusConflict, 40910, "like toggled concurrently, retry")
		return
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to toggle like")
		return
	}

	utils.Success(ctx, gin.H{"liked": liked, "like_count": count})
}
