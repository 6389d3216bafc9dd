package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/janmitra/civic-complaints/src/ai/classify"
	"github.com/janmitra/civic-complaints/src/ai/gemini"
	"github.com/janmitra/civic-complaints/src/api/config"
	"github.com/janmitra/civic-complaints/src/api/data"
	"github.com/janmitra/civic-complaints/src/api/storage"
	"github.com/janmitra/civic-complaints/src/api/types"
	"github.com/janmitra/civic-complaints/src/api/webserver"
)

var allModels = []interface{}{
	&types.Citizen{}, &types.Ward{}, &types.WardMetric{},
	&types.Complaint{}, &types.TimelineEntry{},
}

func migrate(db *gorm.DB) {
	if err := db.AutoMigrate(allModels...); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, relying on environment")
	}
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	migrate(db)
	if err := data.SeedWards(db); err != nil {
		log.Fatalf("seed wards: %v", err)
	}
	if err := data.SeedWardMetrics(db); err != nil {
		log.Fatalf("seed ward metrics: %v", err)
	}
	if err := data.EnsureAdmin(db, cfg.AdminPhone, cfg.AdminPassword); err != nil {
		log.Fatalf("ensure admin: %v", err)
	}

	rdb := data.MustRedis(cfg.RedisURL)

	photos, err := storage.NewPhotoStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatalf("photo store: %v", err)
	}

	clf := classify.New(gemini.NewClient(cfg.GeminiKey), cfg.GeminiModels)

	router := webserver.New(cfg, db, rdb, photos, clf)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("JanMitra API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
