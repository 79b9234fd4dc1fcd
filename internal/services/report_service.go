package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"sekolahku_echo/internal/models"
)

// ReportService builds read-only reconciliation views on top of the
// accounting engine. Nothing here mutates the ledger.
type ReportService struct {
	db    *gorm.DB
	cache *RedisCache
}

func NewReportService(db *gorm.DB, cache *RedisCache) *ReportService {
	return &ReportService{db: db, cache: cache}
}

// LedgerFilter narrows a ledger view. Zero values mean "no constraint".
type LedgerFilter struct {
	From        *time.Time
	To          *time.Time
	EntryType   models.LedgerEntryType
	Direction   models.LedgerDirection
	BuyerUserID uint
	BuyerEmail  string
	ProductType models.ProductType
}

// IsZero reports whether the filter constrains nothing
func (f LedgerFilter) IsZero() bool {
	return f.From == nil && f.To == nil && f.EntryType == "" && f.Direction == "" &&
		f.BuyerUserID == 0 && f.BuyerEmail == "" && f.ProductType == ""
}

// LedgerEntries returns a school's ledger lines matching the filter,
// newest first, with their order items and subscription loaded for
// product-type attribution.
func (s *ReportService) LedgerEntries(schoolID uint, filter LedgerFilter) ([]models.LedgerEntry, error) {
	query := s.db.Model(&models.LedgerEntry{}).
		Preload("Order.Items").
		Preload("Subscription").
		Where("ledger_entries.school_id = ?", schoolID)

	if filter.From != nil {
		query = query.Where("ledger_entries.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("ledger_entries.created_at <= ?", *filter.To)
	}
	if filter.EntryType != "" {
		query = query.Where("ledger_entries.entry_type = ?", filter.EntryType)
	}
	if filter.Direction != "" {
		query = query.Where("ledger_entries.direction = ?", filter.Direction)
	}
	if filter.BuyerUserID > 0 || filter.BuyerEmail != "" {
		query = query.Joins("JOIN orders ON orders.id = ledger_entries.order_id")
		if filter.BuyerUserID > 0 {
			query = query.Where("orders.buyer_user_id = ?", filter.BuyerUserID)
		}
		if filter.BuyerEmail != "" {
			query = query.Joins("JOIN users ON users.id = orders.buyer_user_id").
				Where("users.email = ?", filter.BuyerEmail)
		}
	}

	var entries []models.LedgerEntry
	if err := query.Order("ledger_entries.created_at desc, ledger_entries.id desc").Find(&entries).Error; err != nil {
		return nil, err
	}

	if filter.ProductType != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if AttributeProductType(e) == filter.ProductType {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	return entries, nil
}

// Summary aggregates the filtered ledger through the accounting engine.
// The unfiltered summary is cached briefly since it backs dashboards.
func (s *ReportService) Summary(ctx context.Context, schoolID uint, filter LedgerFilter) (LedgerTotals, error) {
	compute := func() (LedgerTotals, error) {
		entries, err := s.LedgerEntries(schoolID, filter)
		if err != nil {
			return LedgerTotals{}, err
		}
		return ComputeTotals(entries), nil
	}

	if s.cache == nil || !filter.IsZero() {
		return compute()
	}
	key := fmt.Sprintf("billing:summary:%d", schoolID)
	return GetOrSet(s.cache, ctx, key, time.Minute, compute)
}

// AttributeProductType infers the product type behind a ledger line: the
// linked subscription's type when present, otherwise the linked order's
// FIRST item. Orders mixing product types are attributed entirely to their
// first line; the reconcile view carries this known limitation rather than
// splitting entries across types.
func AttributeProductType(e models.LedgerEntry) models.ProductType {
	if e.Subscription != nil {
		return e.Subscription.ProductType
	}
	if e.Order != nil && len(e.Order.Items) > 0 {
		return e.Order.Items[0].ProductType
	}
	return ""
}

// ReconcileRow is one product type's slice of the ledger
type ReconcileRow struct {
	ProductType  models.ProductType `json:"product_type"`
	EarningCents int64              `json:"earning_cents"`
	FeeCents     int64              `json:"fee_cents"`
	RefundCents  int64              `json:"refund_cents"`
}

// ReconcileReport cross-checks ledger totals against order-derived GMV
type ReconcileReport struct {
	GMVCents      int64          `json:"gmv_cents"`
	PaidOrders    int64          `json:"paid_orders"`
	Totals        LedgerTotals   `json:"totals"`
	ByProductType []ReconcileRow `json:"by_product_type"`
}

// Reconcile builds the reconciliation view for a period. GMV comes from
// orders paid inside the window, independent of the ledger, so a mismatch
// between the two signals missing or duplicated entries.
func (s *ReportService) Reconcile(schoolID uint, filter LedgerFilter) (*ReconcileReport, error) {
	entries, err := s.LedgerEntries(schoolID, filter)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{
		Totals:        ComputeTotals(entries),
		ByProductType: GroupByProductType(entries),
	}

	orderQuery := s.db.Model(&models.Order{}).
		Where("school_id = ? AND paid_at IS NOT NULL", schoolID)
	if filter.From != nil {
		orderQuery = orderQuery.Where("paid_at >= ?", *filter.From)
	}
	if filter.To != nil {
		orderQuery = orderQuery.Where("paid_at <= ?", *filter.To)
	}

	type gmvRow struct {
		Gmv   int64
		Count int64
	}
	var row gmvRow
	if err := orderQuery.Select("COALESCE(SUM(total_amount_cents),0) as gmv, COUNT(*) as count").
		Scan(&row).Error; err != nil {
		return nil, err
	}
	report.GMVCents = row.Gmv
	report.PaidOrders = row.Count
	return report, nil
}

// GroupByProductType buckets entries per attributed product type in a
// deterministic order.
func GroupByProductType(entries []models.LedgerEntry) []ReconcileRow {
	buckets := make(map[models.ProductType]*ReconcileRow)
	for _, e := range entries {
		pt := AttributeProductType(e)
		bucket, ok := buckets[pt]
		if !ok {
			bucket = &ReconcileRow{ProductType: pt}
			buckets[pt] = bucket
		}
		switch e.EntryType {
		case models.EntrySchoolEarning:
			bucket.EarningCents += e.AmountCents
		case models.EntryPlatformFee:
			bucket.FeeCents += e.AmountCents
		case models.EntryRefund:
			bucket.RefundCents += e.AmountCents
		}
	}

	rows := make([]ReconcileRow, 0, len(buckets))
	for _, bucket := range buckets {
		rows = append(rows, *bucket)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ProductType < rows[j].ProductType })
	return rows
}

// ledgerCSVHeader is the fixed export column order
var ledgerCSVHeader = []string{
	"id", "created_at", "entry_type", "direction", "amount_cents",
	"refund_target", "order_id", "subscription_id",
}

// LedgerCSV renders entries as CSV with a deterministic column order
func LedgerCSV(entries []models.LedgerEntry) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(ledgerCSVHeader); err != nil {
		return "", err
	}
	for _, e := range entries {
		record := []string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.CreatedAt.UTC().Format(time.RFC3339),
			string(e.EntryType),
			string(e.Direction),
			strconv.FormatInt(e.AmountCents, 10),
			string(e.RefundTarget),
			formatRef(e.OrderID),
			formatRef(e.SubscriptionID),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}

func formatRef(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}
