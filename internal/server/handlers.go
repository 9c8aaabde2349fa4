package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/Digital-Shane/trailer-tidy/internal/notify"
	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

// TrailerFinder lists every trailer found for a search.
type TrailerFinder interface {
	FindAll(ctx context.Context, searchText string) ([]provider.TrailerRecord, error)
}

// TrailerSender emails the best trailer for a search.
type TrailerSender interface {
	SendTrailer(ctx context.Context, searchText, emailAddress string) notify.Outcome
}

// Handler provides HTTP handlers for trailer operations
type Handler struct {
	finder TrailerFinder
	sender TrailerSender
	logger hclog.Logger
}

// NewHandler creates a new API handler
func NewHandler(finder TrailerFinder, sender TrailerSender, logger hclog.Logger) *Handler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Handler{
		finder: finder,
		sender: sender,
		logger: logger.Named("api"),
	}
}

// GetTrailers handles GET /api/Trailer/Trailers
func (h *Handler) GetTrailers(c *gin.Context) {
	searchText := c.Query("searchText")

	records, err := h.finder.FindAll(c.Request.Context(), searchText)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("trailer search failed", "query", searchText, "status", status, "error", err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

// SendTrailer handles POST /api/Trailer/SendTrailer. Validation and delivery
// failures are reported in the body with a 200 status.
func (h *Handler) SendTrailer(c *gin.Context) {
	outcome := h.sender.SendTrailer(c.Request.Context(), c.Query("searchText"), c.Query("emailAddress"))
	c.JSON(http.StatusOK, outcome)
}

func statusFor(err error) int {
	var notFound *provider.NotFoundError
	switch {
	case errors.Is(err, provider.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, provider.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
