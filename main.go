package main

import (
	"github.com/petmily/petboard/config"
	"github.com/petmily/petboard/models"
	"github.com/petmily/petboard/routes"
	"github.com/petmily/petboard/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Post{}, &models.Comment{}, &models.Like{}, &models.PageView{})

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s", cfg.AppPort)
	if err := utils.Serve(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
