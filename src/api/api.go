package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/querysync/querysync/src/api/config"
	"github.com/querysync/querysync/src/api/data"
	"github.com/querysync/querysync/src/api/hub"
	"github.com/querysync/querysync/src/api/notify"
	"github.com/querysync/querysync/src/api/suggest"
	"github.com/querysync/querysync/src/api/webserver"
)

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	if err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	rdb := data.MustRedis(cfg.RedisURL)

	h := hub.New()
	notifier := notify.New(cfg)
	suggester := suggest.New(cfg.GroqAPIKey)

	router := webserver.New(cfg, db, rdb, h, notifier, suggester)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("QuerySync API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)

	h.Close()
	notifier.Close()
}
