package clickhouse

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/storepulse/storepulse/internal/clickhouse"
	"github.com/storepulse/storepulse/internal/domain/sale"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/logger"
	"github.com/storepulse/storepulse/internal/sentry"
	"github.com/storepulse/storepulse/internal/types"
)

// SaleRepository reads the replicated sales tables:
//   - sales: ReplacingMergeTree(version) ORDER BY (user_id, created_at, id)
//   - sale_items: ReplacingMergeTree(version) ORDER BY (sale_id, product_id),
//     with product name and price denormalised at write time
type SaleRepository struct {
	store  *clickhouse.ClickHouseStore
	logger *logger.Logger
	sentry *sentry.Service
}

func NewSaleRepository(store *clickhouse.ClickHouseStore, log *logger.Logger, sentrySvc *sentry.Service) sale.Repository {
	return &SaleRepository{store: store, logger: log, sentry: sentrySvc}
}

func (r *SaleRepository) Ping(ctx context.Context) error {
	span := r.sentry.StartRepositorySpan(ctx, "sale", "ping", nil)
	defer sentry.FinishSpan(span)

	if err := r.store.GetConn().Ping(ctx); err != nil {
		sentry.SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Sales analytics store is not reachable").
			Mark(ierr.ErrConnectivity)
	}
	sentry.SetSpanSuccess(span)
	return nil
}

func (r *SaleRepository) List(ctx context.Context, filter *types.SaleFilter) ([]*sale.Sale, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	span := r.sentry.StartRepositorySpan(ctx, "sale", "list", map[string]interface{}{
		"start_time": filter.StartTime,
		"end_time":   filter.EndTime,
		"user_id":    filter.UserID,
	})
	defer sentry.FinishSpan(span)

	query, args := buildSaleQuery(filter)
	rows, err := r.store.GetConn().Query(ctx, query, args...)
	if err != nil {
		sentry.SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to query sales").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var sales []*sale.Sale
	for rows.Next() {
		var (
			id        string
			createdAt time.Time
			total     *decimal.Decimal
			userID    *string
		)
		if err := rows.Scan(&id, &createdAt, &total, &userID); err != nil {
			sentry.SetSpanError(span, err)
			return nil, ierr.WithError(err).
				WithHint("Failed to scan sale").
				Mark(ierr.ErrDatabase)
		}
		sales = append(sales, saleFromRow(id, createdAt, total, userID))
	}
	if err := rows.Err(); err != nil {
		sentry.SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Error occurred during row iteration").
			Mark(ierr.ErrDatabase)
	}

	if err := r.loadItems(ctx, sales); err != nil {
		sentry.SetSpanError(span, err)
		return nil, err
	}

	r.logger.Debugw("fetched sales from clickhouse",
		"count", len(sales),
		"user_id", filter.UserID,
	)
	sentry.SetSpanSuccess(span)
	return sales, nil
}

func (r *SaleRepository) loadItems(ctx context.Context, sales []*sale.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	byID := lo.SliceToMap(sales, func(s *sale.Sale) (string, *sale.Sale) {
		return s.ID, s
	})

	rows, err := r.store.GetConn().Query(ctx, `
		SELECT sale_id, product_id, quantity, unit_price,
			product_name, selling_price, product_deleted
		FROM sale_items FINAL
		WHERE sale_id IN ?
		ORDER BY sale_id, product_id`,
		lo.Keys(byID),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to query sale items").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			saleID       string
			productID    string
			quantity     uint32
			unitPrice    *decimal.Decimal
			productName  *string
			sellingPrice *decimal.Decimal
			deleted      uint8
		)
		if err := rows.Scan(&saleID, &productID, &quantity, &unitPrice, &productName, &sellingPrice, &deleted); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to scan sale item").
				Mark(ierr.ErrDatabase)
		}
		if s, ok := byID[saleID]; ok {
			s.Items = append(s.Items, itemFromRow(productID, quantity, unitPrice, productName, sellingPrice, deleted))
		}
	}
	if err := rows.Err(); err != nil {
		return ierr.WithError(err).
			WithHint("Error occurred during row iteration").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *SaleRepository) GetTimeBounds(ctx context.Context, userID string) (*sale.TimeBounds, error) {
	span := r.sentry.StartRepositorySpan(ctx, "sale", "get_time_bounds", map[string]interface{}{
		"user_id": userID,
	})
	defer sentry.FinishSpan(span)

	query := "SELECT min(created_at), max(created_at), count() FROM sales FINAL"
	var args []interface{}
	if userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}

	var (
		oldest, newest time.Time
		count          uint64
	)
	if err := r.store.GetConn().QueryRow(ctx, query, args...).Scan(&oldest, &newest, &count); err != nil {
		sentry.SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to read sale time bounds").
			Mark(ierr.ErrDatabase)
	}

	sentry.SetSpanSuccess(span)
	// min/max of an empty table are epoch values
	if count == 0 {
		return &sale.TimeBounds{}, nil
	}
	return &sale.TimeBounds{Oldest: oldest, Newest: newest}, nil
}

// saleFromRow coerces nullable columns; a NULL user_id means an anonymous sale.
func saleFromRow(id string, createdAt time.Time, total *decimal.Decimal, userID *string) *sale.Sale {
	return &sale.Sale{
		ID:          id,
		CreatedAt:   createdAt,
		TotalAmount: types.ToDecimal(total),
		UserID:      lo.FromPtr(userID),
	}
}

// itemFromRow drops the product reference of deleted or unknown products.
func itemFromRow(productID string, quantity uint32, unitPrice *decimal.Decimal, productName *string, sellingPrice *decimal.Decimal, deleted uint8) *sale.Item {
	item := &sale.Item{
		ProductID: productID,
		Quantity:  int(quantity),
		UnitPrice: types.ToDecimal(unitPrice),
	}
	if productName != nil && deleted == 0 {
		item.Product = &sale.Product{
			ID:           productID,
			Name:         *productName,
			SellingPrice: types.ToDecimal(sellingPrice),
		}
	}
	return item
}

// buildSaleQuery keeps filters in sorting key order so the primary index applies.
func buildSaleQuery(filter *types.SaleFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if !filter.StartTime.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.StartTime)
	}
	if !filter.EndTime.IsZero() {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, filter.EndTime)
	}

	query := "SELECT id, created_at, total_amount, user_id FROM sales FINAL"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"
	return query, args
}
