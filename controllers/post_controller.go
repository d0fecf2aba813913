package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petmily/petboard/config"
	"github.com/petmily/petboard/models"
	"github.com/petmily/petboard/utils"
)

// PostController manages board-scoped CRUD operations for posts.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// CreatePost allows authenticated users to create a post on a board.
func (p *PostController) CreatePost(ctx *gin.Context) {
	boardKey := ctx.Param("board")
	if _, ok := config.FindBoard(boardKey); !ok {
		utils.Error(ctx, http.StatusNotFound, 40410, "board not found")
		return
	}

	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title cannot be empty")
		return
	}
	if utf8.RuneCountInString(title) > config.Get().PostTitleMaxLen {
		utils.Error(ctx, http.StatusBadRequest, 40022, "title too long")
		return
	}

	content := utils.Sanitize(req.Content)
	if strings.TrimSpace(content) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40023, "content cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	post := models.Post{
		BoardKey: boardKey,
		AuthorID: userID,
		Title:    title,
		Content:  content,
	}

	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}

	// Cached board pages are stale now
	utils.InvalidateByPrefix(boardListCachePrefix(boardKey))

	utils.Success(ctx, gin.H{"post": post})
}

// ListPosts returns a deterministic, paginated listing of a board's
// posts, optionally filtered by a case-insensitive substring search over
// title and content.
func (p *PostController) ListPosts(ctx *gin.Context) {
	boardKey := ctx.Param("board")
	if _, ok := config.FindBoard(boardKey); !ok {
		utils.Error(ctx, http.StatusNotFound, 40410, "board not found")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))

	// Cache plain board pages only; search terms would explode the key space.
	var cacheKey string
	if search == "" {
		cacheKey = fmt.Sprintf("%spage=%d:size=%d", boardListCachePrefix(boardKey), page, pageSize)
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(200, "application/json", b)
			return
		}
	}

	query := p.db.Model(&models.Post{}).Where("board_key = ?", boardKey)
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count posts")
		return
	}

	var posts []models.Post
	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list posts")
		return
	}

	payload := utils.Paginated(posts, page, pageSize, total)
	if cacheKey != "" {
		wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON(cacheKey, wrapper, time.Duration(config.Get().ListCacheTTLSeconds)*time.Second)
	}
	utils.Success(ctx, payload)
}

// GetPost returns a single post and bumps its view counter. The counter
// is a popularity signal: the increment is best-effort and never fails
// the read.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}

	if err := p.db.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("view count increment failed post=%d err=%v", post.ID, err)
		}
	} else {
		post.ViewCount++
	}

	liked := false
	if userID, authed := getUserID(ctx); authed {
		liked = models.HasLiked(p.db, userID, models.LikeTargetPost, post.ID)
	}

	utils.Success(ctx, gin.H{"post": post, "liked": liked})
}

// UpdatePost allows the author to patch title and/or content. Fields
// absent from the payload are left untouched.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}

	// Ownership decides before the payload is inspected: a non-author gets
	// 403 no matter what they send.
	userID, _ := getUserID(ctx)
	if !isOwner(userID, post.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only update your own posts")
		return
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := utils.Sanitize(strings.TrimSpace(*req.Title))
		if title == "" {
			utils.Error(ctx, http.StatusBadRequest, 40021, "title cannot be empty")
			return
		}
		if utf8.RuneCountInString(title) > config.Get().PostTitleMaxLen {
			utils.Error(ctx, http.StatusBadRequest, 40022, "title too long")
			return
		}
		updates["title"] = title
	}
	if req.Content != nil {
		content := utils.Sanitize(*req.Content)
		if strings.TrimSpace(content) == "" {
			utils.Error(ctx, http.StatusBadRequest, 40023, "content cannot be empty")
			return
		}
		updates["content"] = content
	}

	if len(updates) > 0 {
		if err := p.db.Model(&post).Updates(updates).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to update post")
			return
		}
		if err := p.db.First(&post, postID).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
			return
		}
		utils.InvalidateByPrefix(boardListCachePrefix(post.BoardKey))
	}

	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost allows the author to delete their post. The post, its
// comments and every like entry on the post or its comments go in one
// transaction; a partial cascade is never observable.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}

	userID, _ := getUserID(ctx)
	if !isOwner(userID, post.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own posts")
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", post.ID).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("target_type = ? AND target_id IN ?", models.LikeTargetComment, commentIDs).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.LikeTargetPost, post.ID).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, post.ID).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix(boardListCachePrefix(post.BoardKey))

	utils.Success(ctx, gin.H{"message": "post deleted"})
}

func boardListCachePrefix(boardKey string) string {
	return "cache:board:" + boardKey + ":posts:"
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	cfg := config.Get()
	page := 1
	pageSize := cfg.PageSizeDefault
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
		if s > cfg.PageSizeMax {
			s = cfg.PageSizeMax
		}
		pageSize = s
	}
	return page, pageSize
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
