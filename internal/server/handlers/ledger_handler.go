package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/goatledger/internal/domain/models"
	"github.com/mamadbah2/goatledger/internal/service/ledger"
)

// LedgerHandler exposes the farm ledger over JSON.
type LedgerHandler struct {
	svc    ledger.Service
	logger *zap.Logger
}

// NewLedgerHandler constructs the HTTP handler adapter.
func NewLedgerHandler(svc ledger.Service, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{svc: svc, logger: logger}
}

// GetLedger returns the whole document.
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Document())
}

// GetSummary returns the profit and loss summary.
func (h *LedgerHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Summary())
}

// AddGoat creates a goat and returns it.
func (h *LedgerHandler) AddGoat(c *gin.Context) {
	var in models.GoatInput
	if !h.bind(c, &in) {
		return
	}

	goat, _, err := h.svc.AddGoat(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, goat)
}

// DeleteGoat removes a goat. Unknown ids succeed as well.
func (h *LedgerHandler) DeleteGoat(c *gin.Context) {
	if _, err := h.svc.DeleteGoat(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddRecord appends a record to a goat and returns the updated goat.
func (h *LedgerHandler) AddRecord(c *gin.Context) {
	var in models.RecordInput
	if !h.bind(c, &in) {
		return
	}

	id := c.Param("id")
	doc, err := h.svc.AddRecord(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	goat, _ := doc.FindGoat(id)
	c.JSON(http.StatusCreated, goat)
}

// AddFeedEntry records a feed purchase and returns it.
func (h *LedgerHandler) AddFeedEntry(c *gin.Context) {
	var in models.FeedInput
	if !h.bind(c, &in) {
		return
	}

	doc, err := h.svc.AddFeedEntry(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc.FeedEntries[0])
}

// AddExpense records an expense and returns it.
func (h *LedgerHandler) AddExpense(c *gin.Context) {
	var in models.EntryInput
	if !h.bind(c, &in) {
		return
	}

	doc, err := h.svc.AddExpense(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc.Expenses[0])
}

// AddIncome records an income entry and returns it.
func (h *LedgerHandler) AddIncome(c *gin.Context) {
	var in models.EntryInput
	if !h.bind(c, &in) {
		return
	}

	doc, err := h.svc.AddIncome(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc.Income[0])
}

func (h *LedgerHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.Warn("invalid ledger payload", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func (h *LedgerHandler) fail(c *gin.Context, err error) {
	var verr *ledger.ValidationError
	var nf *ledger.NotFoundError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": verr.Field})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("ledger operation failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ledger storage unavailable"})
	}
}
