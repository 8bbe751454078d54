package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/haulbot/internal/http/middleware"
	"github.com/nurpe/haulbot/internal/model"
	"github.com/nurpe/haulbot/internal/service"
)

const (
	suggestionLimit = 5
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Catalog is the read side of the commodity and location catalog.
type Catalog interface {
	LookupLocation(name string) (model.Location, error)
	CommodityGroups() []model.CommodityGroup
	Systems() []model.Location
	SuggestCommodities(partial string, limit int) []string
	SuggestSystems(partial string, limit int) []string
}

type Handler struct {
	contracts *service.ContractService
	catalog   Catalog
	log       zerolog.Logger
}

func NewHandler(contracts *service.ContractService, catalog Catalog, log zerolog.Logger) *Handler {
	return &Handler{contracts: contracts, catalog: catalog, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/commodities", h.listCommodities)
	router.GET("/systems", h.listSystems)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/quotes", h.requestQuote)
	protected.POST("/contracts", h.createContract)
	protected.GET("/contracts", h.listContracts)
	protected.GET("/contracts/export", h.exportContracts)
	protected.GET("/contracts/:id", h.getContract)
	protected.POST("/contracts/:id/accept", h.acceptContract)
	protected.POST("/contracts/:id/complete", h.completeContract)
	protected.GET("/contracts/:id/pdf", h.contractPDF)
	protected.GET("/stats", h.stats)
}

type quoteRequest struct {
	Commodity   string `json:"commodity" binding:"required"`
	Quantity    int    `json:"quantity"`
	Origin      string `json:"origin"`
	Destination string `json:"destination" binding:"required"`
}

func (r quoteRequest) toService() service.QuoteRequest {
	return service.QuoteRequest{
		Commodity:   r.Commodity,
		Quantity:    r.Quantity,
		Origin:      r.Origin,
		Destination: r.Destination,
	}
}

func (h *Handler) requestQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.contracts.RequestQuote(c.Request.Context(), req.toService())
	if err != nil {
		h.handleQuoteError(c, err, req)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (h *Handler) createContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.contracts.RequestQuote(c.Request.Context(), req.toService())
	if err != nil {
		h.handleQuoteError(c, err, req)
		return
	}
	contract, err := h.contracts.CreateContract(c.Request.Context(), principal.UserID, quote)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": contract})
}

func (h *Handler) listContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	contracts, total := h.contracts.ListContracts(c.Request.Context(), principal.UserID, limit)
	c.JSON(http.StatusOK, gin.H{"data": contracts, "total": total})
}

func (h *Handler) getContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	history, _ := strconv.ParseBool(c.Query("history"))
	contract, err := h.contracts.ContractFor(c.Request.Context(), principal, c.Param("id"), history)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": contract})
}

func (h *Handler) acceptContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contract, err := h.contracts.AcceptContract(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": contract})
}

func (h *Handler) completeContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contract, err := h.contracts.CompleteContract(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": contract})
}

func (h *Handler) contractPDF(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	result, err := h.contracts.ContractPDF(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) exportContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	result, err := h.contracts.ExportContracts(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.contracts.Statistics(c.Request.Context())})
}

func (h *Handler) listCommodities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.catalog.CommodityGroups()})
}

func (h *Handler) listSystems(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"data": h.catalog.Systems()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.catalog.SuggestSystems(query, suggestionLimit)})
}

// handleQuoteError adds name suggestions to unknown commodity and location
// errors before falling back to handleError.
func (h *Handler) handleQuoteError(c *gin.Context, err error, req quoteRequest) {
	var suggestions []string
	switch {
	case errors.Is(err, service.ErrUnknownCommodity):
		suggestions = h.catalog.SuggestCommodities(req.Commodity, suggestionLimit)
	case errors.Is(err, service.ErrUnknownLocation):
		name := req.Destination
		if _, lookupErr := h.catalog.LookupLocation(req.Destination); lookupErr == nil && strings.TrimSpace(req.Origin) != "" {
			name = req.Origin
		}
		suggestions = h.catalog.SuggestSystems(name, suggestionLimit)
	default:
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "suggestions": suggestions})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrSameLocation),
		errors.Is(err, service.ErrUnknownCommodity),
		errors.Is(err, service.ErrUnknownLocation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrContractNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrContractExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
