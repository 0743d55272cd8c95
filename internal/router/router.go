package router

import (
	"time"

	"fleetmaint/internal/config"
	"fleetmaint/internal/handler"
	"fleetmaint/internal/middleware"
	"fleetmaint/internal/repository"
	"fleetmaint/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	vehicleRepo := repository.NewVehicleRepository(db)
	workshopRepo := repository.NewWorkshopRepository(db)
	entryRepo := repository.NewVehicleEntryRepository(db)
	orderRepo := repository.NewWorkOrderRepository(db)
	sparePartRepo := repository.NewSparePartRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	vehicleSvc := service.NewVehicleService(vehicleRepo)
	entrySvc := service.NewVehicleEntryService(entryRepo, vehicleRepo, workshopRepo)
	orderSvc := service.NewWorkOrderService(orderRepo, vehicleRepo, entryRepo, workshopRepo, usuarioRepo)
	sparePartSvc := service.NewSparePartService(sparePartRepo, orderRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	vehiclesH := handler.NewVehiclesHandler(vehicleSvc)
	entriesH := handler.NewEntriesHandler(entrySvc)
	workshopsH := handler.NewWorkshopsHandler(workshopRepo)
	ordersH := handler.NewWorkOrdersHandler(orderSvc)
	sparePartsH := handler.NewSparePartsHandler(sparePartSvc)
	consultaH := handler.NewConsultaStockHandler(sparePartRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Stock check by code — no auth required (warehouse kiosks)
	r.GET("/v1/stock/:code", consultaH.GetStockPorCodigo)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Vehicles — guardia registers at the gate, everyone reads
		v1.GET("/vehiculos", middleware.RequireRole("administrador", "jefe_taller", "mecanico", "recepcionista", "guardia"), vehiclesH.Listar)
		v1.GET("/vehiculos/:id", middleware.RequireRole("administrador", "jefe_taller", "mecanico", "recepcionista", "guardia"), vehiclesH.ObtenerPorID)
		vehiculos := v1.Group("/vehiculos", middleware.RequireRole("administrador", "recepcionista", "guardia"))
		{
			vehiculos.POST("", vehiclesH.Crear)
			vehiculos.PUT("/:id", vehiclesH.Actualizar)
		}

		// Vehicle intake / exit at the workshop gate
		ingresos := v1.Group("/ingresos")
		{
			ingresos.POST("", middleware.RequireRole("administrador", "recepcionista", "guardia"), entriesH.Crear)
			ingresos.GET("", middleware.RequireRole("administrador", "jefe_taller", "recepcionista", "guardia"), entriesH.Listar)
			ingresos.GET("/:id", middleware.RequireRole("administrador", "jefe_taller", "recepcionista", "guardia"), entriesH.ObtenerPorID)
			ingresos.POST("/:id/salida", middleware.RequireRole("administrador", "recepcionista", "guardia"), entriesH.RegistrarSalida)
		}

		v1.GET("/talleres", middleware.RequireRole("administrador", "jefe_taller", "mecanico", "recepcionista"), workshopsH.Listar)

		// Work orders — jefe_taller creates and assigns, mecanico works them
		ordenes := v1.Group("/ordenes")
		{
			ordenes.POST("", middleware.RequireRole("administrador", "jefe_taller"), ordersH.Crear)
			ordenes.GET("", middleware.RequireRole("administrador", "jefe_taller", "mecanico", "recepcionista"), ordersH.Listar)
			ordenes.GET("/estadisticas", middleware.RequireRole("administrador", "jefe_taller"), ordersH.Estadisticas)
			ordenes.GET("/:id", middleware.RequireRole("administrador", "jefe_taller", "mecanico", "recepcionista"), ordersH.ObtenerPorID)
			ordenes.PUT("/:id", middleware.RequireRole("administrador", "jefe_taller"), ordersH.Actualizar)
			ordenes.PATCH("/:id/estado", middleware.RequireRole("administrador", "jefe_taller", "mecanico"), ordersH.CambiarEstado)
			ordenes.POST("/:id/pausar", middleware.RequireRole("administrador", "jefe_taller", "mecanico"), ordersH.Pausar)
			ordenes.POST("/:id/reanudar", middleware.RequireRole("administrador", "jefe_taller", "mecanico"), ordersH.Reanudar)
			ordenes.POST("/:id/fotos", middleware.RequireRole("administrador", "jefe_taller", "mecanico"), ordersH.AgregarFoto)
		}

		// Spare parts inventory
		v1.GET("/repuestos", middleware.RequireRole("administrador", "jefe_taller", "mecanico"), sparePartsH.Listar)
		v1.GET("/repuestos/stock-bajo", middleware.RequireRole("administrador", "jefe_taller"), sparePartsH.StockBajo)
		v1.GET("/repuestos/estadisticas", middleware.RequireRole("administrador", "jefe_taller"), sparePartsH.Estadisticas)
		v1.GET("/repuestos/:id", middleware.RequireRole("administrador", "jefe_taller", "mecanico"), sparePartsH.ObtenerPorID)
		v1.PATCH("/repuestos/:id/stock", middleware.RequireRole("administrador", "jefe_taller"), sparePartsH.AjustarStock)
		repuestos := v1.Group("/repuestos", middleware.RequireRole("administrador", "jefe_taller"))
		{
			repuestos.POST("", sparePartsH.Crear)
			repuestos.PUT("/:id", sparePartsH.Actualizar)
		}

		// Spare part requests tied to a work order
		v1.POST("/solicitudes", middleware.RequireRole("administrador", "jefe_taller", "mecanico"), sparePartsH.Solicitar)
		v1.POST("/solicitudes/:id/entregar", middleware.RequireRole("administrador", "jefe_taller"), sparePartsH.Entregar)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
