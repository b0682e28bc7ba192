package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/storepulse/storepulse/internal/domain/sale"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/logger"
	"github.com/storepulse/storepulse/internal/postgres"
	"github.com/storepulse/storepulse/internal/sentry"
	"github.com/storepulse/storepulse/internal/types"
)

type saleRepository struct {
	client *postgres.Client
	logger *logger.Logger
	sentry *sentry.Service
}

// NewSaleRepository reads sales from the sales, sale_items and products tables.
func NewSaleRepository(client *postgres.Client, log *logger.Logger, sentrySvc *sentry.Service) sale.Repository {
	return &saleRepository{client: client, logger: log, sentry: sentrySvc}
}

func (r *saleRepository) Ping(ctx context.Context) error {
	span := r.sentry.StartRepositorySpan(ctx, "sale", "ping", nil)
	defer sentry.FinishSpan(span)

	if err := r.client.Ping(ctx); err != nil {
		sentry.SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Sales database is not reachable").
			Mark(ierr.ErrConnectivity)
	}
	sentry.SetSpanSuccess(span)
	return nil
}

func (r *saleRepository) List(ctx context.Context, filter *types.SaleFilter) ([]*sale.Sale, error) {
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
	rows, err := r.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		sentry.SetSpanError(span, err)
		return nil, r.wrapQueryError(err, "Failed to list sales")
	}
	defer rows.Close()

	var sales []*sale.Sale
	for rows.Next() {
		var (
			s      sale.Sale
			total  decimal.NullDecimal
			userID sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.CreatedAt, &total, &userID); err != nil {
			sentry.SetSpanError(span, err)
			return nil, ierr.WithError(err).
				WithHint("Failed to read sale row").
				Mark(ierr.ErrDatabase)
		}
		s.TotalAmount = types.ToDecimal(total)
		s.UserID = userID.String
		sales = append(sales, &s)
	}
	if err := rows.Err(); err != nil {
		sentry.SetSpanError(span, err)
		return nil, r.wrapQueryError(err, "Failed to list sales")
	}

	if err := r.loadItems(ctx, sales); err != nil {
		sentry.SetSpanError(span, err)
		return nil, err
	}

	r.logger.Debugw("listed sales",
		"count", len(sales),
		"start_time", filter.StartTime,
		"end_time", filter.EndTime,
		"user_id", filter.UserID,
	)
	sentry.SetSpanSuccess(span)
	return sales, nil
}

// loadItems attaches line items in one round trip. Products that no longer
// exist or are soft deleted come back as NULL and leave Product nil.
func (r *saleRepository) loadItems(ctx context.Context, sales []*sale.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	byID := lo.SliceToMap(sales, func(s *sale.Sale) (string, *sale.Sale) {
		return s.ID, s
	})

	rows, err := r.client.DB().QueryContext(ctx, `
		SELECT si.sale_id, si.product_id, si.quantity, si.unit_price,
			p.id, p.name, p.selling_price
		FROM sale_items si
		LEFT JOIN products p ON p.id = si.product_id AND p.deleted_at IS NULL
		WHERE si.sale_id = ANY($1)
		ORDER BY si.sale_id, si.id`,
		pq.Array(lo.Keys(byID)),
	)
	if err != nil {
		return r.wrapQueryError(err, "Failed to load sale items")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			saleID       string
			item         sale.Item
			unitPrice    decimal.NullDecimal
			productID    sql.NullString
			productName  sql.NullString
			sellingPrice decimal.NullDecimal
		)
		if err := rows.Scan(&saleID, &item.ProductID, &item.Quantity, &unitPrice, &productID, &productName, &sellingPrice); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to read sale item row").
				Mark(ierr.ErrDatabase)
		}
		item.UnitPrice = types.ToDecimal(unitPrice)
		if productID.Valid {
			item.Product = &sale.Product{
				ID:           productID.String,
				Name:         productName.String,
				SellingPrice: types.ToDecimal(sellingPrice),
			}
		}
		if s, ok := byID[saleID]; ok {
			s.Items = append(s.Items, &item)
		}
	}
	if err := rows.Err(); err != nil {
		return r.wrapQueryError(err, "Failed to load sale items")
	}
	return nil
}

func (r *saleRepository) GetTimeBounds(ctx context.Context, userID string) (*sale.TimeBounds, error) {
	span := r.sentry.StartRepositorySpan(ctx, "sale", "get_time_bounds", map[string]interface{}{
		"user_id": userID,
	})
	defer sentry.FinishSpan(span)

	query := "SELECT MIN(created_at), MAX(created_at) FROM sales"
	var args []interface{}
	if userID != "" {
		query += " WHERE user_id = $1"
		args = append(args, userID)
	}

	var oldest, newest sql.NullTime
	if err := r.client.DB().QueryRowContext(ctx, query, args...).Scan(&oldest, &newest); err != nil {
		sentry.SetSpanError(span, err)
		return nil, r.wrapQueryError(err, "Failed to read sale time bounds")
	}

	sentry.SetSpanSuccess(span)
	return &sale.TimeBounds{Oldest: oldest.Time, Newest: newest.Time}, nil
}

func (r *saleRepository) wrapQueryError(err error, hint string) error {
	sentinel := ierr.ErrDatabase
	if postgres.IsConnectionError(err) {
		sentinel = ierr.ErrConnectivity
	} else if postgres.IsQueryCanceled(err) {
		hint = hint + ": query timed out"
	}
	return ierr.WithError(err).
		WithHint(hint).
		Mark(sentinel)
}

func buildSaleQuery(filter *types.SaleFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if !filter.StartTime.IsZero() {
		add("created_at >= $%d", filter.StartTime)
	}
	if !filter.EndTime.IsZero() {
		add("created_at <= $%d", filter.EndTime)
	}
	if filter.UserID != "" {
		add("user_id = $%d", filter.UserID)
	}

	query := "SELECT id, created_at, total_amount, user_id FROM sales"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"
	return query, args
}
