package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowdash/flowdash-api/internal/application/auth"
	"github.com/flowdash/flowdash-api/internal/application/usecase"
	"github.com/flowdash/flowdash-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Gate        *SessionGate
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	InventoryUC *usecase.InventoryUseCase
	MediaUC     *usecase.MediaUseCase
	ImportUC    *usecase.ImportUseCase
	DashboardUC *usecase.DashboardUseCase
	ReportUC    *usecase.ReportUseCase
	MaxUploadMB int
}

// Router registra las rutas de la API. Allow-lists por grupo:
//   - lectura de catálogo, registros, media y dashboard: cualquier rol activo
//   - escritura de catálogo, media e imports: admin y super_admin
//   - administración de usuarios: admin y super_admin (jerarquía en el use case)
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	gate := deps.Gate

	anyRole := gate.Require()
	adminOnly := gate.Require(entity.RoleSuperAdmin, entity.RoleAdmin)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, gate)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", anyRole, authHandler.Logout)
	authGroup.Get("/me", anyRole, authHandler.Me)

	// Users (solo administración)
	users := api.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Put("/:id", userHandler.Update)
	users.Put("/:id/status", userHandler.SetStatus)

	// Products: lectura para todos, escritura para administradores
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Inventory logs: todos los roles activos (la ventana de edición y la
	// propiedad del registro se verifican en el use case)
	logs := api.Group("/inventory/logs", anyRole)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	logs.Post("/", inventoryHandler.Create)
	logs.Get("/", inventoryHandler.List)
	logs.Get("/:id", inventoryHandler.GetByID)
	logs.Put("/:id", inventoryHandler.Update)
	logs.Delete("/:id", inventoryHandler.Delete)

	// Media: lectura para todos, escritura para administradores
	media := api.Group("/media")
	mediaHandler := NewMediaHandler(deps.MediaUC, deps.MaxUploadMB)
	media.Get("/", anyRole, mediaHandler.List)
	media.Get("/:id/file", anyRole, mediaHandler.File)
	media.Post("/", adminOnly, mediaHandler.Upload)
	media.Delete("/:id", adminOnly, mediaHandler.Delete)

	// Import CSV (solo administradores)
	imports := api.Group("/import", adminOnly)
	importHandler := NewImportHandler(deps.ImportUC)
	imports.Post("/products", importHandler.ImportCSV)
	imports.Get("/products", importHandler.History)

	// Dashboard y reportes: cualquier rol activo
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.ReportUC)
	api.Get("/dashboard/summary", anyRole, dashboardHandler.Summary)
	api.Get("/reports/production", anyRole, dashboardHandler.Production)
}
