package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourname/lanshare/internal/app/sharehttp"
	"github.com/yourname/lanshare/internal/config"
	"github.com/yourname/lanshare/internal/usecase/transfersvc"
	"github.com/yourname/lanshare/pkg/netinfo"
)

// main поднимает Share API на первом свободном порту и обеспечивает корректное
// завершение по сигналу.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logrus.New()
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logrus.DebugLevel)
	}

	ln, port, err := netinfo.Listen(cfg.Host, cfg.BasePort, cfg.PortAttempts)
	if err != nil {
		log.Fatal(err)
	}

	handler, srv, err := sharehttp.NewServer(cfg, port, logger)
	if err != nil {
		log.Fatal(err)
	}

	// Фоновая уборка temp-файлов от прерванных загрузок.
	stopGC := transfersvc.StartGC(
		cfg.UploadDir,
		time.Duration(cfg.GCTTLHours)*time.Hour,
		time.Duration(cfg.GCIntervalMin)*time.Minute,
	)
	defer stopGC()

	timeout := time.Duration(cfg.RequestTimeoutSec) * time.Second
	server := &http.Server{
		Handler: handler,
		// Грубый общий таймаут: передачи больших файлов по LAN занимают минуты.
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Сценарий graceful shutdown при получении SIGTERM/SIGINT.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("shutdown error")
		}
	}()

	fmt.Printf("Local URL:   http://localhost:%d\n", port)
	fmt.Printf("Network URL: %s\n", srv.AdvertisedURL())
	logger.WithFields(logrus.Fields{
		"port":       port,
		"upload_dir": cfg.UploadDir,
	}).Info("share server listening")

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("final shutdown error")
	}
}
