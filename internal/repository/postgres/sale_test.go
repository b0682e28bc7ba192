package postgres

import (
	"testing"
	"time"

	"github.com/storepulse/storepulse/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestBuildSaleQuery(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query, args := buildSaleQuery(&types.SaleFilter{StartTime: start, EndTime: end, UserID: "user_1"})
	assert.Equal(t, "SELECT id, created_at, total_amount, user_id FROM sales WHERE created_at >= $1 AND created_at <= $2 AND user_id = $3 ORDER BY created_at ASC, id ASC", query)
	assert.Equal(t, []interface{}{start, end, "user_1"}, args)

	query, args = buildSaleQuery(&types.SaleFilter{UserID: "user_2"})
	assert.Equal(t, "SELECT id, created_at, total_amount, user_id FROM sales WHERE user_id = $1 ORDER BY created_at ASC, id ASC", query)
	assert.Len(t, args, 1)

	query, args = buildSaleQuery(&types.SaleFilter{})
	assert.Equal(t, "SELECT id, created_at, total_amount, user_id FROM sales ORDER BY created_at ASC, id ASC", query)
	assert.Empty(t, args)
}
