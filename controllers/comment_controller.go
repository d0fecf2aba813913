package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petmily/petboard/models"
	"github.com/petmily/petboard/utils"
)

// CommentController manages post-scoped comments, including single-level
// replies.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

var errCommentDepth = errors.New("invalid parent comment")

// CreateComment allows authenticated users to comment on a post, or reply
// to an existing top-level comment. Parent validation and the insert run
// in one transaction so a racing delete of the parent cannot leave an
// orphaned reply behind.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	var req struct {
		Content  string `json:"content" binding:"required"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	content := utils.Sanitize(req.Content)
	if strings.TrimSpace(content) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "content cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	comment := models.Comment{
		PostID:   postID,
		AuthorID: userID,
		ParentID: req.ParentID,
		Content:  content,
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return err
		}
		if req.ParentID != nil {
			var parent models.Comment
			if err := tx.First(&parent, *req.ParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errCommentDepth
				}
				return err
			}
			// Replies stay on the parent's post and never nest further.
			if parent.PostID != postID || parent.ParentID != nil {
				return errCommentDepth
			}
		}
		return tx.Create(&comment).Error
	})
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	case errors.Is(err, errCommentDepth):
		utils.Error(ctx, http.StatusBadRequest, 40032, "parent comment is missing, on another post, or already a reply")
		return
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create comment")
		return
	}

	utils.Success(ctx, gin.H{"comment": comment})
}

// commentView decorates a comment with the caller's like state.
type commentView struct {
	models.Comment
	Liked bool `json:"liked"`
}

// ListComments returns all comments of a post in creation order. Clients
// group replies under their parent_id to render the two-level tree.
func (c *CommentController) ListComments(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	var post models.Post
	if err := c.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}

	var comments []models.Comment
	if err := c.db.Where("post_id = ?", postID).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to list comments")
		return
	}

	likedIDs := map[uint]bool{}
	if userID, authed := getUserID(ctx); authed && len(comments) > 0 {
		ids := make([]uint, 0, len(comments))
		for _, cm := range comments {
			ids = append(ids, cm.ID)
		}
		var likes []models.Like
		if err := c.db.Where("user_id = ? AND target_type = ? AND target_id IN ?",
			userID, models.LikeTargetComment, ids).Find(&likes).Error; err == nil {
			for _, l := range likes {
				likedIDs[l.TargetID] = true
			}
		}
	}

	items := make([]commentView, 0, len(comments))
	for _, cm := range comments {
		items = append(items, commentView{Comment: cm, Liked: likedIDs[cm.ID]})
	}

	utils.Success(ctx, gin.H{"items": items})
}

// UpdateComment allows the author to edit their comment body.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	commentID, ok := parseID(ctx.Param("commentId"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40420, "comment not found")
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load comment")
		return
	}

	// Ownership decides before the payload is inspected: a non-author gets
	// 403 no matter what they send.
	userID, _ := getUserID(ctx)
	if !isOwner(userID, comment.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, 40320, "you can only update your own comments")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	content := utils.Sanitize(req.Content)
	if strings.TrimSpace(content) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "content cannot be empty")
		return
	}

	if err := c.db.Model(&comment).Update("content", content).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to update comment")
		return
	}
	if err := c.db.First(&comment, commentID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load comment")
		return
	}

	utils.Success(ctx, gin.H{"comment": comment})
}

// DeleteComment allows the author to delete their comment together with
// its like entries. Replies to the deleted comment are kept and rendered
// under a deleted placeholder by clients.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	commentID, ok := parseID(ctx.Param("commentId"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40420, "comment not found")
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load comment")
		return
	}

	userID, _ := getUserID(ctx)
	if !isOwner(userID, comment.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, 40321, "you can only delete your own comments")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_type = ? AND target_id = ?", models.LikeTargetComment, comment.ID).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, comment.ID).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to delete comment")
		return
	}

	utils.Success(ctx, gin.H{"message": "comment deleted"})
}
