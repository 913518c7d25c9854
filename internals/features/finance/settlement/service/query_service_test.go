package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dto "trekmandu_backend/internals/features/finance/settlement/dto"

	paymentModel "trekmandu_backend/internals/features/finance/payments/model"
)

// dryRunDB opens a statement-building-only session so the generated SQL can
// be inspected without a live database.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "host=localhost user=trekmandu dbname=trekmandu",
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func listSQL(t *testing.T, f dto.ListFilter) string {
	t.Helper()
	svc := &SettlementService{DB: dryRunDB(t)}
	q, err := svc.baseListQuery(context.Background(), f)
	require.NoError(t, err)
	var rows []paymentModel.Payment
	return q.Find(&rows).Statement.SQL.String()
}

func TestSearchClauseCoversOrganizerColumns(t *testing.T) {
	cond, args := searchClause("yak")

	assert.Equal(t, strings.Count(cond, "?"), len(args))
	for _, a := range args {
		assert.Equal(t, "%yak%", a)
	}
	assert.Contains(t, cond, "o.organizer_name ILIKE ?")
	assert.Contains(t, cond, "o.organizer_organization ILIKE ?")
	assert.Contains(t, cond, "r.registration_contact_name ILIKE ?")
	assert.Contains(t, cond, "te.trek_event_title ILIKE ?")
	assert.Contains(t, cond, "payments.payment_transaction_ref ILIKE ?")
}

func TestListQuerySearchReachesOrganizer(t *testing.T) {
	sql := listSQL(t, dto.ListFilter{Search: "Himalayan"})

	assert.Contains(t, sql, "JOIN organizers o ON o.organizer_id = te.trek_event_organizer_id")
	assert.Contains(t, sql, "o.organizer_name ILIKE")
	assert.Contains(t, sql, "o.organizer_organization ILIKE")
	assert.Contains(t, sql, "r.registration_contact_name ILIKE")
}

func TestListQueryDateRangeUsesTransactionDate(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	sql := listSQL(t, dto.ListFilter{DateFrom: &from, DateTo: &to})

	assert.Contains(t, sql, transactionDateExpr+" >=")
	assert.Contains(t, sql, transactionDateExpr+" <")
	// unconfirmed payments fall back to creation, so the raw created_at
	// column must not be the filter target on its own
	assert.NotContains(t, sql, "payments.payment_created_at >=")
}
