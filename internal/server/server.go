package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-generator/internal/audit"
	"github.com/rezonia/invoice-generator/internal/form"
	"github.com/rezonia/invoice-generator/internal/llm"
	"github.com/rezonia/invoice-generator/internal/logger"
	"github.com/rezonia/invoice-generator/internal/model"
	"github.com/rezonia/invoice-generator/internal/processor"
)

const (
	formRows          = 8
	defaultAuditLimit = 50
	maxAuditLimit     = 1000
	warningsHeader    = "X-Invoice-Warnings"
)

//go:embed templates/form.html
var templates embed.FS

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP form service
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	auditLog audit.Reader
	drafter  *llm.Drafter
	logger   *zap.Logger
}

// Option configures the server
type Option func(*Server)

// WithAuditReader exposes recorded invoices on /api/v1/audit
func WithAuditReader(r audit.Reader) Option {
	return func(s *Server) {
		s.auditLog = r
	}
}

// WithDrafter enables /api/v1/draft
func WithDrafter(d *llm.Drafter) Option {
	return func(s *Server) {
		s.drafter = d
	}
}

// WithLogger sets the request logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new HTTP server around the pipeline
func NewServer(config *Config, pipeline *processor.Pipeline, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:   config,
		router:   gin.New(),
		pipeline: pipeline,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(gin.Recovery())
	s.router.Use(logger.GinMiddleware(s.logger))
	s.router.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/form.html")))

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	// HTML form
	s.router.GET("/", s.handleForm)
	s.router.POST("/invoice", s.handleFormSubmit)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/invoices", s.handleInvoice)
		v1.POST("/totals", s.handleTotals)
		v1.GET("/options", s.handleOptions)
		v1.GET("/audit", s.handleAudit)
		v1.POST("/draft", s.handleDraft)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) defaults() DefaultsOutput {
	d := s.pipeline.Defaults()
	return DefaultsOutput{
		Currency:   d.Currency,
		Language:   d.Language,
		VATApplies: d.VATApplies,
		VATRate:    d.VATRate.String(),
	}
}

func (s *Server) handleForm(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", gin.H{
		"Today":      time.Now().Format("2006-01-02"),
		"Rows":       make([]struct{}, formRows),
		"VATNumbers": model.PresetVATNumbers,
		"Currencies": model.Currencies,
		"Languages":  s.pipeline.Catalog().Languages(),
		"Defaults":   s.defaults(),
	})
}

func (s *Server) handleFormSubmit(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read form", Details: err.Error()})
		return
	}

	s.generate(c, form.FromPostForm(c.Request.PostForm), false)
}

func (s *Server) handleInvoice(c *gin.Context) {
	var req form.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	s.generate(c, req, c.Query("format") == "json")
}

func (s *Server) generate(c *gin.Context, req form.Request, asJSON bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result := s.pipeline.Generate(ctx, req)
	if !result.OK() {
		status, body := errorResponse(result.Error)
		body.Warnings = result.Warnings
		c.JSON(status, body)
		return
	}

	if asJSON {
		c.JSON(http.StatusOK, InvoiceResponse{
			Invoice:  result.Invoice,
			Totals:   result.Totals,
			FileName: result.FileName,
			Pages:    result.Pages,
			Document: result.Document,
			Warnings: result.Warnings,
		})
		return
	}

	if len(result.Warnings) > 0 {
		c.Header(warningsHeader, strings.Join(result.Warnings, "; "))
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, "application/pdf", result.Document)
}

func (s *Server) handleTotals(c *gin.Context) {
	var req form.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	result := s.pipeline.Preview(req)
	if !result.OK() {
		status, body := errorResponse(result.Error)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, TotalsResponse{
		Invoice:  result.Invoice,
		Totals:   result.Totals,
		FileName: result.FileName,
		Warnings: result.Warnings,
	})
}

func (s *Server) handleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, OptionsResponse{
		Languages:  s.pipeline.Catalog().Languages(),
		Currencies: model.Currencies,
		VATNumbers: model.PresetVATNumbers,
		Defaults:   s.defaults(),
	})
}

func (s *Server) handleAudit(c *gin.Context) {
	if s.auditLog == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "audit log not configured"})
		return
	}

	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxAuditLimit)
	}

	entries, err := s.auditLog.Recent(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("reading audit log failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to read audit log", Details: err.Error()})
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}

	c.JSON(http.StatusOK, AuditResponse{Entries: entries, Count: len(entries)})
}

func (s *Server) handleDraft(c *gin.Context) {
	if s.drafter == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "drafting not configured"})
		return
	}

	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	draft, err := s.drafter.Draft(ctx, req.Text)
	if errors.Is(err, llm.ErrEmptyOrder) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		s.logger.Warn("drafting failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "drafting failed", Details: err.Error()})
		return
	}

	// A draft is returned even when it does not validate yet; the
	// operator completes it on the form.
	resp := DraftResponse{Draft: draft}
	preview := s.pipeline.Preview(*draft)
	if preview.OK() {
		resp.Totals = &preview.Totals
		resp.Warnings = preview.Warnings
	} else {
		_, body := errorResponse(preview.Error)
		resp.Errors = body.Fields
		resp.Missing = body.Missing
	}

	c.JSON(http.StatusOK, resp)
}
