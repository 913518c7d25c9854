// file: internals/features/finance/settlement/controller/settlement_controller.go
package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	paymentDTO "trekmandu_backend/internals/features/finance/payments/dto"
	paymentSvc "trekmandu_backend/internals/features/finance/payments/service"
	dto "trekmandu_backend/internals/features/finance/settlement/dto"
	svc "trekmandu_backend/internals/features/finance/settlement/service"
	helper "trekmandu_backend/internals/helpers"
)

/* =======================================================================
   Controller: operator settlement surface (mounted behind JWT + role gate)
======================================================================= */

type SettlementController struct {
	Validator  *validator.Validate
	Settlement *svc.SettlementService
}

func NewSettlementController(db *gorm.DB) *SettlementController {
	return &SettlementController{
		Validator:  validator.New(),
		Settlement: svc.NewSettlementService(db),
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, paymentSvc.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, paymentSvc.ErrInvalidState):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func paymentID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid payment id")
	}
	return id, nil
}

/* ===================== Transitions ===================== */

// POST /api/a/payments/:id/verify
func (h *SettlementController) VerifyPayment(c *fiber.Ctx) error {
	id, err := paymentID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	operatorID, err := helper.GetOperatorID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	p, err := h.Settlement.VerifyPayment(c.UserContext(), id, operatorID)
	if err != nil {
		return helper.JsonError(c, statusFor(err), err.Error())
	}
	return helper.JsonUpdated(c, "payment verified", paymentDTO.FromModel(p))
}

// POST /api/a/payments/:id/release
func (h *SettlementController) ReleasePayment(c *fiber.Ctx) error {
	id, err := paymentID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	operatorID, err := helper.GetOperatorID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.ReleaseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
		}
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	p, err := h.Settlement.ReleasePayment(c.UserContext(), id, operatorID, req.Note)
	if err != nil {
		return helper.JsonError(c, statusFor(err), err.Error())
	}
	return helper.JsonUpdated(c, "payment released", paymentDTO.FromModel(p))
}

// POST /api/a/payments/release-bulk
func (h *SettlementController) BulkRelease(c *fiber.Ctx) error {
	operatorID, err := helper.GetOperatorID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.BulkReleaseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	results := h.Settlement.BulkRelease(c.UserContext(), req.PaymentIDs, operatorID, req.Note)

	released := 0
	for _, r := range results {
		if r.Released {
			released++
		}
	}
	return helper.JsonOK(c, "bulk release finished", fiber.Map{
		"requested": len(results),
		"released":  released,
		"results":   results,
	})
}

// POST /api/a/payments/:id/refund
func (h *SettlementController) RefundPayment(c *fiber.Ctx) error {
	id, err := paymentID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	operatorID, err := helper.GetOperatorID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	p, err := h.Settlement.RefundPayment(c.UserContext(), id, operatorID)
	if err != nil {
		return helper.JsonError(c, statusFor(err), err.Error())
	}
	return helper.JsonUpdated(c, "payment refunded", paymentDTO.FromModel(p))
}

/* ===================== Queries ===================== */

func parseListFilter(c *fiber.Ctx) (dto.ListFilter, error) {
	var f dto.ListFilter
	f.Status = c.Query("status")
	f.Method = c.Query("method")
	f.Search = c.Query("q")

	if raw := c.Query("organizer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, fmt.Errorf("invalid organizer_id")
		}
		f.OrganizerID = &id
	}
	for _, spec := range []struct {
		key  string
		dest **time.Time
	}{
		{"date_from", &f.DateFrom},
		{"date_to", &f.DateTo},
	} {
		raw := c.Query(spec.key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			t, err = time.Parse("2006-01-02", raw)
			if err != nil {
				return f, fmt.Errorf("invalid %s, want RFC3339 or YYYY-MM-DD", spec.key)
			}
		}
		tt := t
		*spec.dest = &tt
	}
	return f, nil
}

// GET /api/a/payments
func (h *SettlementController) ListPayments(c *fiber.Ctx) error {
	f, err := parseListFilter(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	page := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	rows, total, err := h.Settlement.ListPayments(c.UserContext(), f, page)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return helper.JsonList(c, "ok", paymentDTO.FromModels(rows), helper.BuildMeta(total, page))
}

// GET /api/a/payments/stats
func (h *SettlementController) PaymentStats(c *fiber.Ctx) error {
	stats, err := h.Settlement.PaymentStats(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", stats)
}

// GET /api/a/balances
func (h *SettlementController) OrganizerBalances(c *fiber.Ctx) error {
	rows, err := h.Settlement.OrganizerBalances(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /api/a/payments/export
func (h *SettlementController) ExportCSV(c *fiber.Ctx) error {
	f, err := parseListFilter(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	filename := "payments-" + time.Now().Format("20060102-150405") + ".csv"
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	if err := h.Settlement.ExportCSV(c.UserContext(), f, c.Response().BodyWriter()); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return nil
}
