package service

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	dto "trekmandu_backend/internals/features/finance/settlement/dto"

	paymentModel "trekmandu_backend/internals/features/finance/payments/model"
	paymentSvc "trekmandu_backend/internals/features/finance/payments/service"
)

/* =========================================================
   CSV export for the finance dashboard. Amounts go out in rupees with two
   decimals; storage stays in paisa. Newlines inside a field are flattened
   to a space so one payment is always one line.
========================================================= */

const exportBatchSize = 500

// ExportRow is one flattened line of the export: payment joined with its
// registration and trek event.
type ExportRow struct {
	TransactionRef string
	UserName       string
	EventTitle     string
	OrganizerName  string
	AmountPaisa    int64
	Status         paymentModel.PaymentStatus
	Method         paymentModel.PaymentMethod
	TransactionAt  *time.Time
	CreatedAt      time.Time
}

var exportHeader = []string{
	"Transaction ID", "User", "Event", "Organizer",
	"Amount", "Status", "Method", "Date",
}

var newlineFlattener = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func flatten(s string) string { return newlineFlattener.Replace(s) }

// exportDate prefers the gateway settlement time and falls back to creation.
func (r *ExportRow) exportDate() string {
	t := r.CreatedAt
	if r.TransactionAt != nil {
		t = *r.TransactionAt
	}
	return t.In(kathmanduTZ).Format("2006-01-02 15:04:05")
}

func (r *ExportRow) record() []string {
	return []string{
		flatten(r.TransactionRef),
		flatten(r.UserName),
		flatten(r.EventTitle),
		flatten(r.OrganizerName),
		paymentSvc.FormatPaisa(r.AmountPaisa),
		r.Status.Wire(),
		r.Method.Wire(),
		r.exportDate(),
	}
}

// WriteCSV renders rows to w. Separated from the query so the escaping and
// formatting can be exercised without a database.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for i := range rows {
		if err := cw.Write(rows[i].record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV streams the filtered payment set to w in batches so a full-table
// export never materializes in memory.
func (s *SettlementService) ExportCSV(ctx context.Context, f dto.ListFilter, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}

	offset := 0
	for {
		q, err := s.baseListQuery(ctx, f)
		if err != nil {
			return err
		}

		var rows []ExportRow
		err = q.
			Select(`payments.payment_transaction_ref AS transaction_ref,
				r.registration_contact_name AS user_name,
				te.trek_event_title AS event_title,
				o.organizer_name AS organizer_name,
				payments.payment_amount_paisa AS amount_paisa,
				payments.payment_status AS status,
				payments.payment_method AS method,
				payments.payment_transaction_at AS transaction_at,
				payments.payment_created_at AS created_at`).
			Order("payments.payment_created_at ASC, payments.payment_id ASC").
			Limit(exportBatchSize).
			Offset(offset).
			Scan(&rows).Error
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			break
		}

		for i := range rows {
			if err := cw.Write(rows[i].record()); err != nil {
				return err
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}

		if len(rows) < exportBatchSize {
			break
		}
		offset += exportBatchSize
	}

	cw.Flush()
	return cw.Error()
}
