package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/petmily/petboard/config"
	"github.com/petmily/petboard/utils"
)

// BoardController exposes the static board catalog.
type BoardController struct{}

// NewBoardController creates a new BoardController instance.
func NewBoardController() *BoardController {
	return &BoardController{}
}

// ListBoards returns all boards in their configured display order.
func (b *BoardController) ListBoards(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"items": config.ListBoards()})
}
