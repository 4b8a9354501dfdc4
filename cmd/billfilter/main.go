package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jinzhepro/jd-bill-filter/internal/bill"
	"github.com/jinzhepro/jd-bill-filter/internal/config"
	"github.com/jinzhepro/jd-bill-filter/internal/ingest"
	"github.com/jinzhepro/jd-bill-filter/internal/server"
	"github.com/jinzhepro/jd-bill-filter/internal/settlement"
	"github.com/jinzhepro/jd-bill-filter/pkg/logger"
)

func main() {
	inPath := flag.String("in", "", "process a single export file and exit")
	outPath := flag.String("out", "", "output path for -in mode (.xlsx or .csv)")
	pipeline := flag.String("pipeline", "order", "pipeline for -in mode: order or settlement")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := config.LoadConfig()

	if *inPath != "" {
		if err := runOnce(cfg, *inPath, *outPath, *pipeline); err != nil {
			log.Fatalf("processing failed: %v", err)
		}
		return
	}

	zapLogger, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	engine := bill.NewEngine(zapLogger)
	aggregator := settlement.NewAggregator(zapLogger)
	srv := server.NewServer(zapLogger, cfg, engine, aggregator)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	httpServer := &http.Server{Addr: addr, Handler: srv.Router()}

	go func() {
		zapLogger.Info("Starting API server", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	// Wait for interrupt to shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	if err := httpServer.Shutdown(context.Background()); err != nil {
		zapLogger.Error("Forced shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited properly")
}

// runOnce processes one export file from disk and writes the result.
func runOnce(cfg *config.Config, inPath, outPath, pipeline string) error {
	zapLogger, err := logger.NewConsoleLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	if outPath == "" {
		ext := filepath.Ext(inPath)
		outPath = strings.TrimSuffix(inPath, ext) + "_merged" + ext
	}

	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	records, err := ingest.ReadFile(inPath, in)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	asXLSX := strings.EqualFold(filepath.Ext(outPath), ".xlsx")

	switch pipeline {
	case "order":
		result, err := bill.NewEngine(zapLogger).Process(context.Background(), records)
		if err != nil {
			return err
		}
		zapLogger.Info("batch processed",
			zap.Int("original_rows", result.Statistics.OriginalRows),
			zap.Int("output_skus", len(result.Lines)),
			zap.String("out", outPath),
		)
		if asXLSX {
			return ingest.WriteMergedXLSX(out, result.Lines)
		}
		return ingest.WriteMergedCSV(out, result.Lines)
	case "settlement":
		lines, err := settlement.NewAggregator(zapLogger).Process(context.Background(), records)
		if err != nil {
			return err
		}
		zapLogger.Info("settlement processed",
			zap.Int("output_skus", len(lines)),
			zap.String("out", outPath),
		)
		if asXLSX {
			return ingest.WriteSettlementXLSX(out, lines)
		}
		return ingest.WriteSettlementCSV(out, lines)
	default:
		return fmt.Errorf("unknown pipeline %q", pipeline)
	}
}
