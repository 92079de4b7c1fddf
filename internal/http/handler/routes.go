package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"fileview/internal/service"
)

// Route names published in the file list view's state.
const (
	RouteFiles       = "files.index"
	RouteCurrent     = "files.current"
	RouteCurrentFile = "files.current.show"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// db and upstream are optional health dependencies.
func RegisterRoutes(app *fiber.App, db *sql.DB, upstream UpstreamInfo, svc service.FileViewService) {
	app.Get("/health", HealthCheck(db, upstream))
	app.Get("/healthz", LivenessProbe())

	app.Get("/files", ListFiles(svc)).Name(RouteFiles)
	app.Get("/files/current", CurrentFiles(svc)).Name(RouteCurrent)
	app.Get("/files/current/:id", GetCurrentFile(svc)).Name(RouteCurrentFile)
	app.Post("/files/export", ExportFiles(svc))
	app.Get("/files/exports/:name", DownloadExport(svc))
	app.Delete("/files/exports/:name", DeleteExport(svc))

	app.Get("/loads", ListLoads(svc))
	app.Get("/loads/:id", GetLoad(svc))
}
