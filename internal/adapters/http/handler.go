package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/gifmood-go/internal/app"
	"github.com/randomtoy/gifmood-go/internal/config"
	"github.com/randomtoy/gifmood-go/internal/domain"
	"github.com/randomtoy/gifmood-go/internal/ports"
	"github.com/randomtoy/gifmood-go/web"
)

const headerPayment = "X-Payment"
const headerPaymentResponse = "X-Payment-Response"

type Handler struct {
	svc     *app.GifService
	settler ports.PaymentSettler
	mode    config.ResultMode
	logger  *slog.Logger
}

func NewHandler(svc *app.GifService, settler ports.PaymentSettler, mode config.ResultMode, logger *slog.Logger) *Handler {
	return &Handler{
		svc:     svc,
		settler: settler,
		mode:    mode,
		logger:  logger,
	}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.POST("/api/generate", h.Generate)

	e.FileFS("/", "index.html", web.Assets)
	e.FileFS("/app.js", "app.js", web.Assets)
	e.FileFS("/style.css", "style.css", web.Assets)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// generateRequest keeps Text untyped so a null or non-string value is
// rejected rather than coerced.
type generateRequest struct {
	Text any `json:"text"`
}

// Generate runs the paid generation pipeline: validate input, settle the
// per-request payment, derive strategies, search, rank, respond. Input is
// validated before settlement so a malformed request is never charged.
func (h *Handler) Generate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Text input is required"})
	}

	text, ok := req.Text.(string)
	if !ok || strings.TrimSpace(text) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Text input is required"})
	}

	requestID, _ := c.Get("request_id").(string)

	settled, err := h.settler.Settle(c.Request().Context(), ports.SettleRequest{
		Resource:      resourceURL(c),
		Method:        c.Request().Method,
		PaymentHeader: c.Request().Header.Get(headerPayment),
	})
	if err != nil {
		h.logger.Error("payment settlement failed", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate GIF recommendation"})
	}
	if !settled.Settled {
		for k, v := range settled.Required.Headers {
			c.Response().Header().Set(k, v)
		}
		return c.JSONBlob(settled.Required.Status, settled.Required.Body)
	}

	c.Response().Header().Set(headerPaymentResponse, settled.ResponseHeader)

	if h.mode == config.ModeSingle {
		result, err := h.svc.Generate(c.Request().Context(), text)
		if err != nil {
			return h.mapError(c, requestID, err)
		}
		return c.JSON(http.StatusOK, toGifResponse(result))
	}

	results, err := h.svc.GenerateMulti(c.Request().Context(), text)
	if err != nil {
		return h.mapError(c, requestID, err)
	}
	return c.JSON(http.StatusOK, toMultiResponse(results))
}

func (h *Handler) mapError(c echo.Context, requestID string, err error) error {
	switch {
	case errors.Is(err, domain.ErrSearchNotConfigured):
		h.logger.Error("gif search key missing", "request_id", requestID)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Giphy API key not configured"})
	case errors.Is(err, domain.ErrSearchFailed):
		h.logger.Error("gif search failed", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch from Giphy"})
	case errors.Is(err, domain.ErrNoGifFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "No GIF found"})
	case errors.Is(err, domain.ErrNoGifsFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "No GIFs found"})
	default:
		h.logger.Error("gif generation failed", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate GIF recommendation"})
	}
}

func resourceURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host + c.Request().URL.Path
}
