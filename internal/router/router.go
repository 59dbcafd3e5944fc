package router

import (
	"time"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/config"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/handler"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/middleware"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/repository"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/service"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/worker"

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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	creditoRepo := repository.NewCreditoRepository(db)
	cuentaRepo := repository.NewCuentaPorCobrarRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	proformaRepo := repository.NewProformaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cierreRepo := repository.NewCierreRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	clienteSvc := service.NewClienteService(clienteRepo)
	creditoSvc := service.NewCreditoService(creditoRepo, cuentaRepo, clienteRepo)
	proformaSvc := service.NewProformaService(proformaRepo, clienteRepo, ventaRepo, cuentaRepo, creditoSvc, dispatcher)
	pagoSvc := service.NewPagoService(pagoRepo, cuentaRepo, creditoSvc)
	cierreSvc := service.NewCierreService(cierreRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	creditosH := handler.NewCreditosHandler(creditoSvc)
	proformasH := handler.NewProformasHandler(proformaSvc)
	pagosH := handler.NewPagosHandler(pagoSvc)
	cierresH := handler.NewCierresHandler(cierreSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: vendedor, cajero, administrador — declared per-endpoint
		v1.GET("/clientes", middleware.RequireRole("vendedor", "cajero", "administrador"), clientesH.Listar)
		v1.GET("/clientes/:id", middleware.RequireRole("vendedor", "cajero", "administrador"), clientesH.Obtener)
		v1.POST("/clientes", middleware.RequireRole("administrador"), clientesH.Crear)

		// Créditos — granting is admin-only, reads for everyone authenticated
		v1.POST("/creditos", middleware.RequireRole("administrador"), creditosH.Otorgar)
		v1.GET("/creditos", middleware.RequireRole("vendedor", "cajero", "administrador"), creditosH.Listar)
		v1.GET("/creditos/:clienteId", middleware.RequireRole("vendedor", "cajero", "administrador"), creditosH.Estado)

		// Proformas — lifecycle transitions are vendedor+; expiry runs in the cron
		profs := v1.Group("/proformas", middleware.RequireRole("vendedor", "administrador"))
		{
			profs.POST("", proformasH.Crear)
			profs.GET("", proformasH.Listar)
			profs.GET("/alertas", proformasH.Alertas)
			profs.GET("/:id", proformasH.Obtener)
			profs.POST("/:id/aprobar", proformasH.Aprobar)
			profs.POST("/:id/rechazar", proformasH.Rechazar)
			profs.POST("/:id/convertir", proformasH.Convertir)
		}

		// Pagos — cajero registers collections
		v1.POST("/pagos", middleware.RequireRole("cajero", "administrador"), pagosH.Registrar)
		v1.GET("/pagos/cuentas/:clienteId", middleware.RequireRole("vendedor", "cajero", "administrador"), pagosH.CuentasDeCliente)

		// Cierres — registration by cajero, consolidation by administrador
		v1.POST("/cierres", middleware.RequireRole("cajero", "administrador"), cierresH.Registrar)
		admin := v1.Group("/admin/cierres", middleware.RequireRole("administrador"))
		{
			admin.GET("/pendientes", cierresH.Pendientes)
			admin.GET("/estadisticas", cierresH.Estadisticas)
			admin.POST("/:id/consolidar", cierresH.Consolidar)
			admin.POST("/:id/rechazar", cierresH.Rechazar)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
