package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"fileview/internal/service"
)

// ListLoads godoc
// @Summary      Load history
// @Tags         loads
// @Produce      json
// @Param        limit   query     int  false  "Page size"  default(10)
// @Param        offset  query     int  false  "Offset"     default(0)
// @Success      200 {object}  service.LoadListResult
// @Failure      400 {object}  errorPayload
// @Failure      501 {object}  errorPayload
// @Router       /loads [get]
func ListLoads(svc service.FileViewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListLoads(c.UserContext(), limit, offset)
		if err != nil {
			if errors.Is(err, service.ErrHistoryDisabled) {
				return writeError(c, fiber.StatusNotImplemented, "HISTORY_DISABLED", "load history is not configured")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetLoad godoc
// @Summary      One load of the history
// @Tags         loads
// @Produce      json
// @Param        id  path      string  true  "Load ID (uuid)"
// @Success      200 {object}  model.Load
// @Failure      400 {object}  errorPayload
// @Failure      404 {object}  errorPayload
// @Failure      501 {object}  errorPayload
// @Router       /loads/{id} [get]
func GetLoad(svc service.FileViewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		load, err := svc.GetLoad(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrHistoryDisabled):
				return writeError(c, fiber.StatusNotImplemented, "HISTORY_DISABLED", "load history is not configured")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "load not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(load)
	}
}
