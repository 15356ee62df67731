package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/harborbank/corebank_backend/internal/core/ports/services"
	"github.com/harborbank/corebank_backend/internal/dto"
	"github.com/harborbank/corebank_backend/internal/middleware"
	"github.com/harborbank/corebank_backend/internal/platform/config"
	"github.com/shopspring/decimal"
)

// reportingHandler handles read-only report requests.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	largeThreshold   decimal.Decimal
}

func newReportingHandler(rs portssvc.ReportingSvcFacade, cfg *config.Config) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		largeThreshold:   cfg.LargeTransactionThreshold,
	}
}

// registerReportingRoutes registers the reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade, cfg *config.Config) {
	h := newReportingHandler(reportingService, cfg)

	rg.GET("/accounts/:accountID/balance-history", h.getBalanceHistory)

	reports := rg.Group("/reports")
	{
		reports.GET("/overview", h.getOverview)
		reports.GET("/type-summary", h.getTypeSummary)
		reports.GET("/today", h.getTodaySummary)
		reports.GET("/large-transactions", h.listLargeTransactions)
		reports.GET("/top-customers", h.getTopCustomers)
		reports.GET("/recent-transactions", h.listRecentTransactions)
		reports.GET("/activity", h.listRecentActivities)
	}
}

func (h *reportingHandler) getBalanceHistory(c *gin.Context) {
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	accountID := c.Param("accountID")
	points, err := h.reportingService.GetBalanceHistory(c.Request.Context(), accountID, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceHistoryResponse(accountID, points))
}

func (h *reportingHandler) getOverview(c *gin.Context) {
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	overview, err := h.reportingService.GetBankOverview(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOverviewResponse(overview))
}

// getTypeSummary aggregates transactions by type over [from, to). Dates are
// YYYY-MM-DD; the default window is the last 30 days.
func (h *reportingHandler) getTypeSummary(c *gin.Context) {
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if s := c.Query("from"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid 'from' date, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if s := c.Query("to"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid 'to' date, expected YYYY-MM-DD"})
			return
		}
		to = parsed
	}

	rows, err := h.reportingService.GetTypeSummary(c.Request.Context(), from, to, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTypeSummaryResponse(rows, from, to))
}

func (h *reportingHandler) getTodaySummary(c *gin.Context) {
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	summary, err := h.reportingService.GetTodaySummary(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDaySummaryResponse(summary))
}

func (h *reportingHandler) listLargeTransactions(c *gin.Context) {
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	threshold := h.largeThreshold
	if s := c.Query("threshold"); s != "" {
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid threshold"})
			return
		}
		threshold = parsed
	}
	limit := parseLimit(c, 50)

	txns, err := h.reportingService.ListLargeTransactions(c.Request.Context(), threshold, limit, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

func (h *reportingHandler) getTopCustomers(c *gin.Context) {
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit := parseLimit(c, 5)
	rows, err := h.reportingService.GetTopCustomers(c.Request.Context(), limit, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListTopCustomerResponse(rows))
}

func (h *reportingHandler) listRecentTransactions(c *gin.Context) {
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txns, err := h.reportingService.ListRecentTransactions(c.Request.Context(), parseLimit(c, 20), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

func (h *reportingHandler) listRecentActivities(c *gin.Context) {
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	activities, err := h.reportingService.ListRecentActivities(c.Request.Context(), parseLimit(c, 20), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListActivityResponse(activities))
}

func parseLimit(c *gin.Context, fallback int) int {
	s := c.Query("limit")
	if s == "" {
		return fallback
	}
	limit, err := strconv.Atoi(s)
	if err != nil || limit <= 0 || limit > 100 {
		return fallback
	}
	return limit
}
