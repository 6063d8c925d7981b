package api

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/insightdelivered/cc-statement-parser/internal/extractor"
	"github.com/insightdelivered/cc-statement-parser/internal/metrics"
	"github.com/insightdelivered/cc-statement-parser/internal/models"
	"github.com/insightdelivered/cc-statement-parser/internal/parser"
)

// Version is reported by the health endpoint and the CLI.
const Version = "1.0.0"

// Handler holds the HTTP handlers for the API.
type Handler struct {
	extractor *extractor.Extractor
	logger    *slog.Logger
	metrics   *metrics.Metrics

	// extract turns statement text into fields.
	extract func(text string) *models.ExtractedFields
}

// NewHandler wires the PDF extractor, logger and metrics into a Handler.
func NewHandler(ext *extractor.Extractor, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		extractor: ext,
		logger:    logger,
		metrics:   m,
		extract:   parser.Extract,
	}
}

// NewApp returns a fiber app with CORS, panic recovery, an upload size
// limit and the handler's routes.
func NewApp(h *Handler, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "cc-statement-parser " + Version,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})
	app.Use(fiberrecover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Post("/parse", h.HandleParse)
	app.Get("/api/health", h.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

// HandleParse accepts a statement PDF in the multipart field "statement"
// and responds with the extracted fields. Clients that already extracted
// the text may send it in "extractedText" to skip server-side decoding.
func (h *Handler) HandleParse(c *fiber.Ctx) error {
	start := time.Now()

	header, err := c.FormFile("statement")
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, metrics.OutcomeBadRequest, "No file part in the request")
	}
	if header.Filename == "" {
		return h.fail(c, fiber.StatusBadRequest, metrics.OutcomeBadRequest, "No file selected for uploading")
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return h.fail(c, fiber.StatusBadRequest, metrics.OutcomeBadRequest, "Invalid file type, please upload a PDF")
	}

	text := c.FormValue("extractedText")
	if strings.TrimSpace(text) == "" {
		data, err := readUpload(header)
		if err != nil {
			return h.fail(c, fiber.StatusBadRequest, metrics.OutcomeBadRequest, "Failed to read uploaded file")
		}
		pages, err := h.extractor.ExtractTextFromBytes(data)
		if err != nil {
			h.logger.Warn("pdf extraction failed",
				slog.String("filename", header.Filename),
				slog.Any("error", err),
			)
			return h.fail(c, fiber.StatusBadRequest, metrics.OutcomeUnreadable, fmt.Sprintf("Could not read text from the PDF: %v", err))
		}
		text = extractor.Combine(pages)
	}

	fields, err := h.safeExtract(text)
	if err != nil {
		h.logger.Error("extraction failed", slog.String("filename", header.Filename), slog.Any("error", err))
		return h.fail(c, fiber.StatusInternalServerError, metrics.OutcomeInternalErr, fmt.Sprintf("An error occurred during parsing: %v", err))
	}

	elapsed := time.Since(start)
	h.metrics.ObserveParse(metrics.OutcomeOK, fields, elapsed)
	h.logger.Info("statement parsed",
		slog.String("filename", header.Filename),
		slog.Int("text_bytes", len(text)),
		slog.Int("fields_found", fields.Found()),
		slog.Duration("elapsed", elapsed),
	)

	return c.JSON(fields)
}

// safeExtract converts a panic inside extraction into an error.
func (h *Handler) safeExtract(text string) (fields *models.ExtractedFields, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return h.extract(text), nil
}

func (h *Handler) fail(c *fiber.Ctx, status int, outcome, msg string) error {
	h.metrics.ObserveParse(outcome, nil, 0)
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
