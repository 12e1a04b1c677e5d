package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/cppla/blogapi/cache"
	"github.com/cppla/blogapi/config"
	"github.com/cppla/blogapi/routes"
	"github.com/cppla/blogapi/services"
	"github.com/cppla/blogapi/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	ctx := context.Background()
	if n, err := services.PromoteStaff(ctx, db, cfg.StaffUsernames); err != nil {
		utils.Sugar.Errorf("staff bootstrap failed: %v", err)
	} else if n > 0 {
		utils.Sugar.Infof("promoted %d account(s) to staff", n)
	}

	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisEnabled {
		client, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			utils.Logger.Warn("redis unavailable, using in-process category cache", zap.Error(err))
		} else {
			defer client.Close()
			store = cache.NewRedisStore(client)
		}
	}

	r := routes.SetupRouter(routes.Deps{
		Config: cfg,
		DB:     db,
		Cache:  store,
		Tokens: utils.NewTokenManager(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL),
		Logger: utils.Logger,
	})

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
