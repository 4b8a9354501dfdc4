// Package server exposes the upload/review HTTP API.
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jinzhepro/jd-bill-filter/internal/bill"
	"github.com/jinzhepro/jd-bill-filter/internal/config"
	"github.com/jinzhepro/jd-bill-filter/internal/ingest"
	"github.com/jinzhepro/jd-bill-filter/internal/settlement"
)

// Server represents the HTTP server
type Server struct {
	logger     *zap.Logger
	cfg        *config.Config
	engine     *bill.Engine
	aggregator *settlement.Aggregator
}

// NewServer creates a new HTTP server
func NewServer(logger *zap.Logger, cfg *config.Config, engine *bill.Engine, aggregator *settlement.Aggregator) *Server {
	return &Server{
		logger:     logger,
		cfg:        cfg,
		engine:     engine,
		aggregator: aggregator,
	}
}

// Router creates a new HTTP router
func (s *Server) Router() *gin.Engine {
	gin.SetMode(s.cfg.GinMode)
	router := gin.New()

	router.Use(ginzap.Ginzap(s.logger, "2006-01-02T15:04:05Z07:00", true))
	router.Use(ginzap.RecoveryWithZap(s.logger, true))

	corsCfg := cors.DefaultConfig()
	if len(s.cfg.CORSOrigins) == 1 && s.cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.cfg.CORSOrigins
	}
	router.Use(cors.New(corsCfg))

	router.MaxMultipartMemory = s.cfg.MaxUploadMB << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.POST("/bills/upload", s.handleBillUpload)
			v1.POST("/settlements/upload", s.handleSettlementUpload)
		}
	}

	return router
}

// handleBillUpload runs the order pipeline on an uploaded export. The
// response is JSON by default; format=xlsx or format=csv returns the
// exported file instead.
func (s *Server) handleBillUpload(c *gin.Context) {
	batchID := uuid.New().String()
	records, ok := s.readUpload(c, batchID)
	if !ok {
		return
	}

	result, err := s.engine.Process(c.Request.Context(), records)
	if err != nil {
		s.respondPipelineError(c, batchID, err)
		return
	}

	switch c.Query("format") {
	case "xlsx":
		c.Header("Content-Disposition", `attachment; filename="merged.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := ingest.WriteMergedXLSX(c.Writer, result.Lines); err != nil {
			s.logger.Error("xlsx export failed", zap.String("batch_id", batchID), zap.Error(err))
		}
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="merged.csv"`)
		c.Header("Content-Type", "text/csv; charset=utf-8")
		if err := ingest.WriteMergedCSV(c.Writer, result.Lines); err != nil {
			s.logger.Error("csv export failed", zap.String("batch_id", batchID), zap.Error(err))
		}
	default:
		c.JSON(http.StatusOK, gin.H{
			"batch_id":   batchID,
			"lines":      result.Lines,
			"statistics": result.Statistics,
		})
	}
}

// handleSettlementUpload runs the settlement pipeline on an uploaded
// export.
func (s *Server) handleSettlementUpload(c *gin.Context) {
	batchID := uuid.New().String()
	records, ok := s.readUpload(c, batchID)
	if !ok {
		return
	}

	lines, err := s.aggregator.Process(c.Request.Context(), records)
	if err != nil {
		s.respondPipelineError(c, batchID, err)
		return
	}

	switch c.Query("format") {
	case "xlsx":
		c.Header("Content-Disposition", `attachment; filename="settlement.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := ingest.WriteSettlementXLSX(c.Writer, lines); err != nil {
			s.logger.Error("xlsx export failed", zap.String("batch_id", batchID), zap.Error(err))
		}
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="settlement.csv"`)
		c.Header("Content-Type", "text/csv; charset=utf-8")
		if err := ingest.WriteSettlementCSV(c.Writer, lines); err != nil {
			s.logger.Error("csv export failed", zap.String("batch_id", batchID), zap.Error(err))
		}
	default:
		c.JSON(http.StatusOK, gin.H{
			"batch_id": batchID,
			"lines":    lines,
		})
	}
}

// readUpload extracts and parses the multipart "file" field.
func (s *Server) readUpload(c *gin.Context, batchID string) ([]bill.Record, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"batch_id": batchID, "error": "missing file field"})
		return nil, false
	}
	f, err := header.Open()
	if err != nil {
		s.logger.Error("opening upload failed", zap.String("batch_id", batchID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"batch_id": batchID, "error": "could not read upload"})
		return nil, false
	}
	defer f.Close()

	records, err := ingest.ReadFile(header.Filename, f)
	if err != nil {
		s.logger.Warn("unreadable upload",
			zap.String("batch_id", batchID),
			zap.String("filename", header.Filename),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"batch_id": batchID, "error": err.Error()})
		return nil, false
	}
	return records, true
}

// respondPipelineError maps engine errors to HTTP statuses: validation and
// integrity failures are client data problems, everything else is a 500.
func (s *Server) respondPipelineError(c *gin.Context, batchID string, err error) {
	status := http.StatusInternalServerError
	switch err.(type) {
	case *bill.ValidationError:
		status = http.StatusBadRequest
	case *bill.IntegrityError:
		status = http.StatusUnprocessableEntity
	}
	s.logger.Warn("pipeline rejected batch",
		zap.String("batch_id", batchID),
		zap.Error(err),
	)
	c.JSON(status, gin.H{"batch_id": batchID, "error": err.Error()})
}
