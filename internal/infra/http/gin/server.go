package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"tourline/internal/infra/config"
	"tourline/internal/infra/obs"
)

type CatalogHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	HomePage(c *gin.Context)
	SectionTours(c *gin.Context)
}

type OrderHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Confirm(c *gin.Context)
	Cancel(c *gin.Context)
}

type AdminTourHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Restore(c *gin.Context)
	Purge(c *gin.Context)
	Recalculate(c *gin.Context)
	CreateDetail(c *gin.Context)
	UpdateDetail(c *gin.Context)
	DeleteDetail(c *gin.Context)
}

type SectionHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type TaxonomyHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type Handlers struct {
	Catalog   CatalogHTTP
	Orders    OrderHTTP
	AdminTour AdminTourHTTP
	Sections  SectionHTTP
	Taxonomy  TaxonomyHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.AccessLog())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Catalog != nil {
		api.GET("/home", h.Catalog.HomePage)
		api.GET("/home/sections/:id", h.Catalog.SectionTours)
		api.GET("/tours", h.Catalog.List)
		api.GET("/tours/:id", h.Catalog.Get)
	}
	if h.Orders != nil {
		api.POST("/orders", h.Orders.Create)
	}

	admin := api.Group("/admin")
	if h.AdminTour != nil {
		adminTours := admin.Group("/tours")
		adminTours.GET("", h.AdminTour.List)
		adminTours.POST("", h.AdminTour.Create)
		adminTours.GET("/:id", h.AdminTour.Get)
		adminTours.PUT("/:id", h.AdminTour.Update)
		adminTours.DELETE("/:id", h.AdminTour.Delete)
		adminTours.POST("/:id/restore", h.AdminTour.Restore)
		adminTours.DELETE("/:id/purge", h.AdminTour.Purge)
		adminTours.POST("/:id/recalculate", h.AdminTour.Recalculate)
		adminTours.POST("/:id/details", h.AdminTour.CreateDetail)
		adminTours.PUT("/:id/details/:detailId", h.AdminTour.UpdateDetail)
		adminTours.DELETE("/:id/details/:detailId", h.AdminTour.DeleteDetail)
	}
	if h.Orders != nil {
		adminOrders := admin.Group("/orders")
		adminOrders.GET("", h.Orders.List)
		adminOrders.GET("/:id", h.Orders.Get)
		adminOrders.POST("/:id/confirm", h.Orders.Confirm)
		adminOrders.POST("/:id/cancel", h.Orders.Cancel)
	}
	if h.Sections != nil {
		adminSections := admin.Group("/sections")
		adminSections.GET("", h.Sections.List)
		adminSections.POST("", h.Sections.Create)
		adminSections.PUT("/:id", h.Sections.Update)
		adminSections.DELETE("/:id", h.Sections.Delete)
	}
	if h.Taxonomy != nil {
		adminTaxonomy := admin.Group("/taxonomy/:kind")
		adminTaxonomy.GET("", h.Taxonomy.List)
		adminTaxonomy.POST("", h.Taxonomy.Create)
		adminTaxonomy.PUT("/:id", h.Taxonomy.Update)
		adminTaxonomy.DELETE("/:id", h.Taxonomy.Delete)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

var (
	_ CatalogHTTP   = CatalogHandler{}
	_ OrderHTTP     = OrderHandler{}
	_ AdminTourHTTP = AdminTourHandler{}
	_ SectionHTTP   = SectionHandler{}
	_ TaxonomyHTTP  = TaxonomyHandler{}
)
