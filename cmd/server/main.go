package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/hrkeeper/internal/server"
	"github.com/dmitrijs2005/hrkeeper/internal/server/config"
	"github.com/gin-gonic/gin"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	app.Run(ctx)

}
