package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petmily/petboard/models"
	"github.com/petmily/petboard/utils"
)

// StatsController reports aggregate community activity.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns total posts, comments, likes and today's content views.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var posts, comments, likes int64
	if err := s.db.Model(&models.Post{}).Count(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.Comment{}).Count(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.Like{}).Count(&likes).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load stats")
		return
	}

	now := time.Now().In(time.Local)
	localMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var todayViews int64
	s.db.Model(&models.PageView{}).Where("date = ?", localMidnight).
		Select("COALESCE(SUM(count), 0)").Scan(&todayViews)

	utils.Success(ctx, gin.H{
		"posts":       posts,
		"comments":    comments,
		"likes":       likes,
		"today_views": todayViews,
	})
}
