package main

import (
	"os"

	"go.uber.org/zap"

	"go-ad-stats/internal/api"
	"go-ad-stats/internal/api/handler"
	"go-ad-stats/internal/store"
	"go-ad-stats/pkg/router"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	dbPath := os.Getenv("ADSTATS_DB")
	if dbPath == "" {
		dbPath = "adstats.db"
	}
	if err := store.InitDB(dbPath); err != nil {
		log.Fatal("opening run database", zap.Error(err))
	}
	defer store.Close()

	addr := os.Getenv("ADSTATS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	r := router.New(log)
	api.RegisterRoutes(r, &handler.RunHandler{Log: log})

	if err := r.Start(addr); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
