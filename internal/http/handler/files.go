package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"fileview/internal/filelist"
	"fileview/internal/model"
	"fileview/internal/service"
)

// routeState captures the matched route for the view's state. Strings are
// copied because fiber reuses request buffers once the handler returns.
func routeState(c *fiber.Ctx) filelist.StaticRoute {
	r := c.Route()
	params := make(map[string]string)
	for k, v := range c.AllParams() {
		params[utils.CopyString(k)] = utils.CopyString(v)
	}
	for k, v := range c.Queries() {
		if _, ok := params[k]; !ok {
			params[utils.CopyString(k)] = utils.CopyString(v)
		}
	}
	return filelist.StaticRoute(model.Route{
		Name:   utils.CopyString(r.Name),
		Path:   utils.CopyString(r.Path),
		Params: params,
	})
}

// ListFiles godoc
// @Summary      Load the file list
// @Description  Fetches the file data objects, publishes them and starts enrichment in the background.
// @Tags         files
// @Produce      json
// @Param        q   query     string  false  "Upstream index filter"
// @Success      200 {object}  filelist.View
// @Failure      502 {object}  errorPayload
// @Router       /files [get]
func ListFiles(svc service.FileViewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := svc.Load(c.UserContext(), utils.CopyString(c.Query("q")), routeState(c))
		if err != nil {
			if errors.Is(err, service.ErrUpstreamUnavailable) {
				return writeError(c, fiber.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "file list could not be loaded")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(view)
	}
}

// CurrentFiles godoc
// @Summary      Current file list
// @Tags         files
// @Produce      json
// @Success      200 {object}  datastore.Snapshot
// @Failure      404 {object}  errorPayload
// @Router       /files/current [get]
func CurrentFiles(svc service.FileViewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := svc.Current(c.UserContext())
		if err != nil {
			if errors.Is(err, service.ErrNotLoaded) {
				return writeError(c, fiber.StatusNotFound, "NOT_LOADED", "file list not loaded yet")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(snap)
	}
}

// GetCurrentFile godoc
// @Summary      One record of the current file list
// @Tags         files
// @Produce      json
// @Param        id  path      string  true  "File _id"
// @Success      200 {object}  map[string]interface{}
// @Failure      404 {object}  errorPayload
// @Router       /files/current/{id} [get]
func GetCurrentFile(svc service.FileViewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := svc.Find(c.UserContext(), utils.CopyString(c.Params("id")))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotLoaded):
				return writeError(c, fiber.StatusNotFound, "NOT_LOADED", "file list not loaded yet")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			case errors.Is(err, service.ErrIDRequired):
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(f)
	}
}

// ExportFiles godoc
// @Summary      Export the current file list
// @Description  Writes the current file list to object storage and returns a presigned download URL.
// @Tags         exports
// @Produce      json
// @Success      201 {object}  service.ExportResult
// @Failure      404 {object}  errorPayload
// @Failure      501 {object}  errorPayload
// @Router       /files/export [post]
func ExportFiles(svc service.FileViewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Export(c.UserContext())
		if err != nil {
			switch {
			case errors.Is(err, service.ErrStorageDisabled):
				return writeError(c, fiber.StatusNotImplemented, "EXPORT_DISABLED", "export is not configured")
			case errors.Is(err, service.ErrNotLoaded):
				return writeError(c, fiber.StatusNotFound, "NOT_LOADED", "file list not loaded yet")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// DownloadExport godoc
// @Summary      Download an exported file list
// @Tags         exports
// @Produce      json
// @Param        name path     string  true  "Export file name"
// @Success      200
// @Failure      404 {object}  errorPayload
// @Failure      501 {object}  errorPayload
// @Router       /files/exports/{name} [get]
func DownloadExport(svc service.FileViewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := svc.OpenExport(c.UserContext(), utils.CopyString(c.Params("name")))
		if err != nil {
			return exportError(c, err)
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		} else {
			c.Type("json")
		}
		if !info.LastModified.IsZero() {
			c.Set(fiber.HeaderLastModified, info.LastModified.UTC().Format(http.TimeFormat))
		}
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		// fasthttp closes rc once the body has been written.
		return c.SendStream(rc, size)
	}
}

// DeleteExport godoc
// @Summary      Delete an exported file list
// @Tags         exports
// @Param        name path     string  true  "Export file name"
// @Success      204
// @Failure      404 {object}  errorPayload
// @Failure      501 {object}  errorPayload
// @Router       /files/exports/{name} [delete]
func DeleteExport(svc service.FileViewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteExport(c.UserContext(), utils.CopyString(c.Params("name"))); err != nil {
			return exportError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func exportError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrStorageDisabled):
		return writeError(c, fiber.StatusNotImplemented, "EXPORT_DISABLED", "export is not configured")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "export not found")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "export name is required")
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
