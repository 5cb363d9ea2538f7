package main

import (
	"flag"
	"fmt"

	"draw-poker/internal/api"
	"draw-poker/internal/config"
	"draw-poker/internal/repo"
	"draw-poker/internal/service"
	"draw-poker/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file")
	flag.Parse()

	// 1. Load Config
	config.LoadConfig(configPath)

	// 2. Init Logger
	logger.InitLogger(config.GlobalConfig.Server.Mode)
	defer logger.Log.Sync()

	logger.Log.Info("Starting server...",
		zap.String("mode", config.GlobalConfig.Server.Mode),
		zap.Int("seatCapacity", config.GlobalConfig.Table.SeatCapacity),
		zap.Int64("ante", config.GlobalConfig.Table.Ante),
	)

	// 3. Init DB & Redis
	repo.InitDB()
	repo.InitRedis()

	// 4. Init Services
	services, err := service.NewContainer(repo.DB, repo.RDB, config.GlobalConfig)
	if err != nil {
		logger.Log.Fatal("failed to build services", zap.Error(err))
	}
	defer services.Close()

	// 5. Init Router
	if config.GlobalConfig.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	api.RegisterRoutes(r, services, config.GlobalConfig.Session)

	// 6. Start Server
	addr := fmt.Sprintf(":%s", config.GlobalConfig.Server.Port)
	logger.Log.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
