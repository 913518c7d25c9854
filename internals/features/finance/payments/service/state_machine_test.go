package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "trekmandu_backend/internals/features/finance/payments/model"
)

func pendingPayment(amountPaisa int64) *model.Payment {
	return &model.Payment{
		PaymentID:             uuid.New(),
		PaymentRegistrationID: uuid.New(),
		PaymentAmountPaisa:    amountPaisa,
		PaymentStatus:         model.PaymentStatusPending,
		PaymentMethod:         model.PaymentMethodEsewa,
		PaymentTransactionRef: uuid.NewString(),
	}
}

func TestConfirmFromPending(t *testing.T) {
	p := pendingPayment(100_000)
	now := time.Now()

	require.NoError(t, Confirm(p, "REF-1", now))
	assert.Equal(t, model.PaymentStatusSuccess, p.PaymentStatus)
	require.NotNil(t, p.PaymentConfirmationRef)
	assert.Equal(t, "REF-1", *p.PaymentConfirmationRef)
	require.NotNil(t, p.PaymentTransactionAt)
	assert.True(t, p.PaymentTransactionAt.Equal(now))
}

func TestConfirmIsIdempotent(t *testing.T) {
	p := pendingPayment(100_000)
	require.NoError(t, Confirm(p, "REF-1", time.Now()))

	// duplicate callback keeps the first confirmation ref
	err := Confirm(p, "REF-2", time.Now())
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Equal(t, "REF-1", *p.PaymentConfirmationRef)
	assert.Equal(t, model.PaymentStatusSuccess, p.PaymentStatus)
}

func TestConfirmAfterReleaseIsIdempotent(t *testing.T) {
	p := pendingPayment(100_000)
	require.NoError(t, Confirm(p, "REF-1", time.Now()))
	require.NoError(t, Release(p, uuid.New(), "", time.Now()))

	err := Confirm(p, "REF-2", time.Now())
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Equal(t, model.PaymentStatusReleased, p.PaymentStatus)
}

func TestConfirmFromTerminalStateFails(t *testing.T) {
	p := pendingPayment(100_000)
	require.NoError(t, Refund(p, uuid.New(), time.Now()))

	err := Confirm(p, "REF-1", time.Now())
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, model.PaymentStatusRefunded, p.PaymentStatus)
}

func TestVerifySetsAuditAndFee(t *testing.T) {
	SetPlatformFeeBps(500)
	p := pendingPayment(100_000) // NPR 1000.00
	op := uuid.New()
	now := time.Now()

	require.NoError(t, Verify(p, op, now))
	assert.Equal(t, model.PaymentStatusSuccess, p.PaymentStatus)
	assert.Equal(t, int64(5_000), p.FeePaisa()) // NPR 50.00
	assert.Equal(t, int64(95_000), p.NetPaisa())
	require.NotNil(t, p.PaymentVerifiedBy)
	assert.Equal(t, op, *p.PaymentVerifiedBy)
	require.NotNil(t, p.PaymentVerifiedAt)
}

func TestVerifyNeverRecomputesFee(t *testing.T) {
	SetPlatformFeeBps(500)
	p := pendingPayment(100_000)
	fee, net := int64(1_234), int64(98_766)
	p.PaymentFeePaisa = &fee
	p.PaymentNetPaisa = &net

	require.NoError(t, Verify(p, uuid.New(), time.Now()))
	assert.Equal(t, int64(1_234), p.FeePaisa())
	assert.Equal(t, int64(98_766), p.NetPaisa())
}

func TestVerifyFromSuccessFails(t *testing.T) {
	p := pendingPayment(100_000)
	require.NoError(t, Confirm(p, "REF-1", time.Now()))
	assert.ErrorIs(t, Verify(p, uuid.New(), time.Now()), ErrInvalidState)
}

func TestReleaseRequiresVerifiedPayment(t *testing.T) {
	p := pendingPayment(100_000)

	err := Release(p, uuid.New(), "", time.Now())
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Contains(t, err.Error(), "must be verified before release")
	assert.Equal(t, model.PaymentStatusPending, p.PaymentStatus)
}

func TestReleaseFreezesFeeAndAudit(t *testing.T) {
	SetPlatformFeeBps(500)
	p := pendingPayment(100_000)
	require.NoError(t, Confirm(p, "REF-1", time.Now()))
	op := uuid.New()

	require.NoError(t, Release(p, op, "weekly payout", time.Now()))
	assert.Equal(t, model.PaymentStatusReleased, p.PaymentStatus)
	assert.Equal(t, int64(5_000), p.FeePaisa())
	assert.Equal(t, int64(95_000), p.NetPaisa())
	require.NotNil(t, p.PaymentReleasedBy)
	assert.Equal(t, op, *p.PaymentReleasedBy)
	require.NotNil(t, p.PaymentReleaseNote)
	assert.Equal(t, "weekly payout", *p.PaymentReleaseNote)
}

func TestReleaseIsNotRepeatable(t *testing.T) {
	p := pendingPayment(100_000)
	require.NoError(t, Confirm(p, "REF-1", time.Now()))
	require.NoError(t, Release(p, uuid.New(), "", time.Now()))

	assert.ErrorIs(t, Release(p, uuid.New(), "", time.Now()), ErrInvalidState)
}

func TestRefundFromPendingAndSuccess(t *testing.T) {
	op := uuid.New()

	p := pendingPayment(100_000)
	require.NoError(t, Refund(p, op, time.Now()))
	assert.Equal(t, model.PaymentStatusRefunded, p.PaymentStatus)
	require.NotNil(t, p.PaymentRefundedBy)
	assert.Equal(t, op, *p.PaymentRefundedBy)

	p = pendingPayment(100_000)
	require.NoError(t, Confirm(p, "REF-1", time.Now()))
	require.NoError(t, Refund(p, op, time.Now()))
	assert.Equal(t, model.PaymentStatusRefunded, p.PaymentStatus)
}

func TestRefundFromReleasedFails(t *testing.T) {
	p := pendingPayment(100_000)
	require.NoError(t, Confirm(p, "REF-1", time.Now()))
	require.NoError(t, Release(p, uuid.New(), "", time.Now()))

	err := Refund(p, uuid.New(), time.Now())
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Contains(t, err.Error(), "released payment cannot be refunded")
}

func TestGatewayRefundHasNoOperator(t *testing.T) {
	p := pendingPayment(100_000)
	require.NoError(t, Refund(p, uuid.Nil, time.Now()))
	assert.Nil(t, p.PaymentRefundedBy)
	require.NotNil(t, p.PaymentRefundedAt)
}

func TestDeclineOnlyFromPending(t *testing.T) {
	p := pendingPayment(100_000)
	require.NoError(t, Decline(p, time.Now()))
	assert.Equal(t, model.PaymentStatusDeclined, p.PaymentStatus)

	assert.ErrorIs(t, Decline(p, time.Now()), ErrInvalidState)
}

func TestComputeFeeHalfUpRounding(t *testing.T) {
	cases := []struct {
		amount int64
		bps    int64
		want   int64
	}{
		{100_000, 500, 5_000}, // NPR 1000 @ 5% = NPR 50
		{100, 500, 5},         // NPR 1 @ 5%
		{99, 500, 5},          // 4.95 rounds up
		{89, 500, 4},          // 4.45 rounds down
		{1, 500, 0},           // 0.05 rounds down
		{10, 500, 1},          // 0.50 rounds up (half-up)
		{100_000, 0, 0},
		{100_000, 10_000, 100_000},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ComputeFee(tc.amount, tc.bps),
			"amount=%d bps=%d", tc.amount, tc.bps)
	}
}

func TestEnsureFeeUsesConfiguredRate(t *testing.T) {
	SetPlatformFeeBps(1_000) // 10%
	defer SetPlatformFeeBps(500)

	p := pendingPayment(50_000)
	EnsureFee(p)
	assert.Equal(t, int64(5_000), p.FeePaisa())
	assert.Equal(t, int64(45_000), p.NetPaisa())

	// already settled: never touched again
	SetPlatformFeeBps(2_000)
	EnsureFee(p)
	assert.Equal(t, int64(5_000), p.FeePaisa())
}

func TestZeroRateFeeIsSettledNotRecomputed(t *testing.T) {
	SetPlatformFeeBps(0)
	defer SetPlatformFeeBps(500)

	p := pendingPayment(100_000)
	require.NoError(t, Verify(p, uuid.New(), time.Now()))
	require.True(t, p.HasFee(), "zero fee must still count as settled")
	assert.Equal(t, int64(0), p.FeePaisa())
	assert.Equal(t, int64(100_000), p.NetPaisa())

	// rate raised between verify and release: the settled zero must survive
	SetPlatformFeeBps(500)
	require.NoError(t, Release(p, uuid.New(), "", time.Now()))
	assert.Equal(t, int64(0), p.FeePaisa())
	assert.Equal(t, int64(100_000), p.NetPaisa())
}
