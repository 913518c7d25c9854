package service

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "trekmandu_backend/internals/features/finance/settlement/dto"

	paymentModel "trekmandu_backend/internals/features/finance/payments/model"
)

func TestWriteCSVHeaderAndRow(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	rows := []ExportRow{
		{
			TransactionRef: "cs-abc",
			UserName:       "Pemba Sherpa",
			EventTitle:     "Annapurna Base Camp",
			OrganizerName:  "Himalayan Trails",
			AmountPaisa:    100_000,
			Status:         paymentModel.PaymentStatusReleased,
			Method:         paymentModel.PaymentMethodCheckout,
			TransactionAt:  &at,
			CreatedAt:      at.Add(-time.Hour),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, []string{"Transaction ID", "User", "Event", "Organizer", "Amount", "Status", "Method", "Date"}, recs[0])
	got := recs[1]
	assert.Equal(t, "cs-abc", got[0])
	assert.Equal(t, "Pemba Sherpa", got[1])
	assert.Equal(t, "Annapurna Base Camp", got[2])
	assert.Equal(t, "Himalayan Trails", got[3])
	assert.Equal(t, "1000.00", got[4])
	assert.Equal(t, "RELEASED", got[5])
	assert.Equal(t, "CHECKOUT", got[6])
	assert.NotEmpty(t, got[7])
}

func TestWriteCSVEscapesSeparatorsAndQuotes(t *testing.T) {
	rows := []ExportRow{
		{
			TransactionRef: "tx-1",
			UserName:       `Dorje "DJ" Lama, Jr.`,
			EventTitle:     "Everest, Lukla loop",
			OrganizerName:  "Trails & Co",
			Status:         paymentModel.PaymentStatusSuccess,
			Method:         paymentModel.PaymentMethodEsewa,
			CreatedAt:      time.Now(),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	// dangerous fields get quote-wrapped with embedded quotes doubled
	assert.Contains(t, buf.String(), `"Dorje ""DJ"" Lama, Jr."`)
	// plain fields stay unquoted
	assert.Contains(t, buf.String(), "Trails & Co")
	assert.NotContains(t, buf.String(), `"Trails & Co"`)

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `Dorje "DJ" Lama, Jr.`, recs[1][1])
	assert.Equal(t, "Everest, Lukla loop", recs[1][2])
}

func TestWriteCSVFlattensNewlines(t *testing.T) {
	rows := []ExportRow{
		{
			TransactionRef: "tx-1",
			UserName:       "Pemba",
			EventTitle:     "Everest\nthree passes\r\nloop",
			OrganizerName:  "Trails",
			Status:         paymentModel.PaymentStatusSuccess,
			Method:         paymentModel.PaymentMethodEsewa,
			CreatedAt:      time.Now(),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2) // one payment stays one line
	assert.Equal(t, "Everest three passes loop", recs[1][2])
}

func TestExportRecordUsesWireValues(t *testing.T) {
	r := ExportRow{
		TransactionRef: "tx-1",
		Status:         paymentModel.PaymentStatusSuccess,
		Method:         paymentModel.PaymentMethodEsewa,
		CreatedAt:      time.Now(),
	}
	rec := r.record()
	assert.Equal(t, "COMPLETED", rec[5])
	assert.Equal(t, "ESEWA", rec[6])
	assert.False(t, strings.Contains(strings.Join(rec, ","), "success"),
		"storage enum must not leak into the export")
}

/* ===================== Stats folding ===================== */

func TestBuildStatsRevenueCoversCapturedOnly(t *testing.T) {
	rows := []statusAgg{
		{Status: paymentModel.PaymentStatusPending, Count: 3, Amount: 300_000},
		{Status: paymentModel.PaymentStatusSuccess, Count: 2, Amount: 200_000, Fee: 10_000, Net: 190_000},
		{Status: paymentModel.PaymentStatusReleased, Count: 1, Amount: 100_000, Fee: 5_000, Net: 95_000},
		{Status: paymentModel.PaymentStatusDeclined, Count: 4, Amount: 400_000},
		{Status: paymentModel.PaymentStatusRefunded, Count: 5, Amount: 500_000},
	}

	stats := buildStats(rows, 150_000)

	assert.Equal(t, int64(300_000), stats.TotalRevenuePaisa)
	assert.Equal(t, int64(15_000), stats.TotalFeePaisa)
	assert.Equal(t, int64(285_000), stats.NetRevenuePaisa)
	assert.Equal(t, int64(3), stats.PendingCount)
	assert.Equal(t, int64(2), stats.CompletedCount)
	assert.Equal(t, int64(1), stats.ReleasedCount)
	assert.Equal(t, int64(4), stats.DeclinedCount)
	assert.Equal(t, int64(5), stats.RefundedCount)
	assert.Equal(t, int64(150_000), stats.TodayRevenuePaisa)
	assert.Equal(t, int64(100_000), stats.AveragePaymentPaisa) // 300k / 3 captured
}

func TestBuildStatsEmpty(t *testing.T) {
	stats := buildStats(nil, 0)
	assert.Zero(t, stats.TotalRevenuePaisa)
	assert.Zero(t, stats.AveragePaymentPaisa)
}

/* ===================== Balance rollup ===================== */

func TestFinishBalancesTotalIsPendingPlusReleased(t *testing.T) {
	rows := []dto.OrganizerBalance{
		{
			OrganizerID:         uuid.New(),
			OrganizerName:       "Himalayan Trails",
			PendingAmountPaisa:  190_000, // Σ net of confirmed, unreleased
			ReleasedAmountPaisa: 95_000,  // Σ net of released
			PendingPaymentCount: 2,
		},
		{
			OrganizerID:   uuid.New(),
			OrganizerName: "Lonely Yak",
		},
	}

	out := finishBalances(rows)
	assert.Equal(t, int64(285_000), out[0].TotalBalancePaisa)
	assert.Zero(t, out[1].TotalBalancePaisa)
}
