package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeonardoBeccarini/labmet/internal/config"
	"github.com/LeonardoBeccarini/labmet/internal/services/gateway/app"
)

func main() {
	config.LoadDotEnv()
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("PLOT_GRPC_ADDR_MAP: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	router, err := app.NewPlotRouter(cfg.PlotMap)
	if err != nil {
		log.Fatalf("plot router: %v", err)
	}
	defer router.Close()

	gw := app.NewGateway(cfg.App, router)
	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gw.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("gateway listening on %s plots=%v", hs.Addr, router.Plots())
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("gateway: shutting down...")
	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	_ = hs.Shutdown(shCtx)
}
