package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sekolahku_echo/internal/middleware"
	"sekolahku_echo/internal/models"
	"sekolahku_echo/internal/services"
)

type BillingHandler struct {
	db      *gorm.DB
	reports *services.ReportService
}

func NewBillingHandler(db *gorm.DB, reports *services.ReportService) *BillingHandler {
	return &BillingHandler{db: db, reports: reports}
}

// parseLedgerFilter reads the shared billing query parameters
func parseLedgerFilter(c echo.Context) (services.LedgerFilter, error) {
	var filter services.LedgerFilter

	from, err := queryTime(c, "from")
	if err != nil {
		return filter, err
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return filter, err
	}
	filter.From = from
	filter.To = to

	filter.EntryType = models.LedgerEntryType(c.QueryParam("type"))
	filter.Direction = models.LedgerDirection(c.QueryParam("direction"))
	filter.ProductType = models.ProductType(c.QueryParam("product_type"))
	filter.BuyerEmail = c.QueryParam("buyer_email")
	if buyer := c.QueryParam("buyer"); buyer != "" {
		id, err := paramValueUint(buyer)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid buyer")
		}
		filter.BuyerUserID = id
	}
	return filter, nil
}

// Ledger lists ledger entries with filters; format=csv streams an export
// with a fixed column order.
func (h *BillingHandler) Ledger(c echo.Context) error {
	schoolID := middleware.SchoolID(c)
	filter, err := parseLedgerFilter(c)
	if err != nil {
		return err
	}

	entries, err := h.reports.LedgerEntries(schoolID, filter)
	if err != nil {
		return err
	}

	if c.QueryParam("format") == "csv" {
		csvBody, err := services.LedgerCSV(entries)
		if err != nil {
			return err
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="ledger.csv"`)
		return c.Blob(http.StatusOK, "text/csv", []byte(csvBody))
	}

	totals := services.ComputeTotals(entries)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  entries,
		"totals": totals.ByType,
		"all":    totals.AllCents,
		"nets":   totals.Nets,
		"meta":   map[string]interface{}{"count": len(entries)},
	})
}

// Summary returns aggregate totals and nets for the filtered ledger
func (h *BillingHandler) Summary(c echo.Context) error {
	schoolID := middleware.SchoolID(c)
	filter, err := parseLedgerFilter(c)
	if err != nil {
		return err
	}

	totals, err := h.reports.Summary(c.Request().Context(), schoolID, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, totals)
}

// Reconcile cross-checks ledger totals against order-derived GMV for the
// period, broken down per product type.
func (h *BillingHandler) Reconcile(c echo.Context) error {
	schoolID := middleware.SchoolID(c)
	filter, err := parseLedgerFilter(c)
	if err != nil {
		return err
	}

	report, err := h.reports.Reconcile(schoolID, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// GetConfig returns the platform billing configuration
func (h *BillingHandler) GetConfig(c echo.Context) error {
	cfg, err := services.LoadAppConfig(h.db)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cfg)
}

type configRequest struct {
	PlatformFeePercent     *float64               `json:"platform_fee_percent"`
	DefaultPaymentProvider *models.PaymentGateway `json:"default_payment_provider"`
}

// UpdateConfig adjusts the platform fee percent and default provider.
// Changes apply to future settlements only; refunds reverse from each
// order's recorded ledger history, never the current percent.
func (h *BillingHandler) UpdateConfig(c echo.Context) error {
	var req configRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	cfg, err := services.LoadAppConfig(h.db)
	if err != nil {
		return err
	}

	if req.PlatformFeePercent != nil {
		pct := *req.PlatformFeePercent
		if pct < 0 || pct > 100 {
			return echo.NewHTTPError(http.StatusBadRequest, "platform_fee_percent must be between 0 and 100")
		}
		cfg.PlatformFeePercent = pct
	}
	if req.DefaultPaymentProvider != nil {
		cfg.DefaultPaymentProvider = *req.DefaultPaymentProvider
	}

	if err := h.db.Save(&cfg).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cfg)
}
