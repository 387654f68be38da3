package http

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/giftguide/backend/internal/domain"
	"github.com/giftguide/backend/internal/usecase"
)

const (
	// cartCookie is the storefront cookie identifying the shopper's cart
	cartCookie = "cart"

	maxSnapshotBytes = 1 << 20
	maxMarkupBytes   = 4 << 20
)

// CartEventSource streams cart events to subscribers
type CartEventSource interface {
	Subscribe() (<-chan domain.CartEvent, func())
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	modals *usecase.ModalService
	cards  domain.CardExtractor
	events CartEventSource
}

// NewHandler creates a new HTTP handler. Nil dependencies turn their
// endpoints into 503 responses.
func NewHandler(modals *usecase.ModalService, cards domain.CardExtractor, events CartEventSource) *Handler {
	return &Handler{
		modals: modals,
		cards:  cards,
		events: events,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "giftguide-backend",
		"version": "1.0.0",
	})
}

// ExtractCards decodes the product snapshots embedded in collection markup
func (h *Handler) ExtractCards(c *gin.Context) {
	if h.cards == nil {
		notConfigured(c, "card extraction")
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxMarkupBytes)
	cards, err := h.cards.ExtractCards(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

// CreateModal registers a new closed modal
func (h *Handler) CreateModal(c *gin.Context) {
	if h.modals == nil {
		notConfigured(c, "modals")
		return
	}

	view, err := h.modals.CreateModal(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewModalResponse(view))
}

// GetModal returns the current view of a modal
func (h *Handler) GetModal(c *gin.Context) {
	if h.modals == nil {
		notConfigured(c, "modals")
		return
	}

	view, err := h.modals.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewModalResponse(view))
}

// DeleteModal closes a modal and drops it
func (h *Handler) DeleteModal(c *gin.Context) {
	if h.modals == nil {
		notConfigured(c, "modals")
		return
	}

	if err := h.modals.DeleteModal(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// OpenModal opens a modal with the raw product snapshot in the body
func (h *Handler) OpenModal(c *gin.Context) {
	if h.modals == nil {
		notConfigured(c, "modals")
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxSnapshotBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read snapshot: " + err.Error()})
		return
	}

	view, err := h.modals.OpenModal(c.Request.Context(), c.Param("id"), raw)
	if err != nil {
		respondErrorWithView(c, err, view)
		return
	}

	c.JSON(http.StatusOK, NewModalResponse(view))
}

// DispatchEvent applies a UI event (select, close, overlay_click, keydown,
// submit) to a modal
func (h *Handler) DispatchEvent(c *gin.Context) {
	if h.modals == nil {
		notConfigured(c, "modals")
		return
	}

	var event domain.ModalEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event: " + err.Error()})
		return
	}
	event.CartToken = cartToken(c)

	view, err := h.modals.Dispatch(c.Request.Context(), c.Param("id"), event)
	if err != nil {
		respondErrorWithView(c, err, view)
		return
	}

	c.JSON(http.StatusOK, NewModalResponse(view))
}

// SubmitModal starts an add-to-cart request. With ?wait=true the response
// carries the settled view instead of the "Adding..." one.
func (h *Handler) SubmitModal(c *gin.Context) {
	if h.modals == nil {
		notConfigured(c, "modals")
		return
	}

	wait := false
	if raw := c.Query("wait"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "wait must be a boolean"})
			return
		}
		wait = parsed
	}

	view, err := h.modals.Submit(c.Request.Context(), c.Param("id"), cartToken(c), wait)
	if err != nil {
		respondErrorWithView(c, err, view)
		return
	}

	status := http.StatusAccepted
	if wait {
		status = http.StatusOK
	}
	c.JSON(status, NewModalResponse(view))
}

// CartEvents streams cart:refresh events as server-sent events
func (h *Handler) CartEvents(c *gin.Context) {
	if h.events == nil {
		notConfigured(c, "cart events")
		return
	}

	events, cancel := h.events.Subscribe()
	defer cancel()

	ctx := c.Request.Context()
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event.Name, event)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// cartToken reads the shopper's cart cookie, if any
func cartToken(c *gin.Context) string {
	token, err := c.Cookie(cartCookie)
	if err != nil {
		return ""
	}
	return token
}

func notConfigured(c *gin.Context, feature string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": feature + " not configured",
	})
}

// errorStatus maps domain errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrModalNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSnapshot), errors.Is(err, domain.ErrInvalidSelection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrPurchaseDisabled):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrStorefrontUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body for err
func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondErrorWithView also returns the unchanged modal so the page can
// stay in sync after a rejected event
func respondErrorWithView(c *gin.Context, err error, view domain.ModalView) {
	if view.ModalID == "" {
		respondError(c, err)
		return
	}

	status := errorStatus(err)
	c.JSON(status, gin.H{
		"error":   err.Error(),
		"view":    view,
		"patches": RenderPatches(view),
	})
}
