// file: internals/features/events/controller/trek_event_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "trekmandu_backend/internals/features/events/model"
	helper "trekmandu_backend/internals/helpers"
)

type TrekEventController struct {
	DB *gorm.DB
}

func NewTrekEventController(db *gorm.DB) *TrekEventController {
	return &TrekEventController{DB: db}
}

var eventSortWhitelist = map[string]string{
	"created_at": "trek_event_created_at",
	"start_date": "trek_event_start_date",
	"title":      "trek_event_title",
	"price":      "trek_event_price_paisa",
}

// GET /events
func (h *TrekEventController) List(c *fiber.Ctx) error {
	page := helper.ParseFiber(c, "start_date", "asc", helper.DefaultOpts)

	q := h.DB.WithContext(c.UserContext()).
		Model(&eventModel.TrekEvent{}).
		Where("trek_event_deleted_at IS NULL")

	if needle := strings.TrimSpace(c.Query("q")); needle != "" {
		q = q.Where("trek_event_title ILIKE ?", "%"+needle+"%")
	}
	if raw := c.Query("organizer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid organizer_id")
		}
		q = q.Where("trek_event_organizer_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	order, err := page.SafeOrderClause(eventSortWhitelist, "start_date")
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	order = strings.TrimPrefix(order, "ORDER BY ")

	var rows []eventModel.TrekEvent
	if err := q.Preload("Organizer").
		Order(order).
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "ok", rows, helper.BuildMeta(total, page))
}

// GET /events/:id
func (h *TrekEventController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var ev eventModel.TrekEvent
	err = h.DB.WithContext(c.UserContext()).
		Preload("Organizer").
		First(&ev, "trek_event_id = ? AND trek_event_deleted_at IS NULL", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "trek event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", ev)
}
