// Package router wires each service's gin engine: shared middleware chain
// plus the service's route table.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xmartin/vehicle-registry/internal/infrastructure/auth"
	"github.com/xmartin/vehicle-registry/internal/infrastructure/logger"
	"github.com/xmartin/vehicle-registry/internal/interfaces/http/handler"
	"github.com/xmartin/vehicle-registry/internal/interfaces/http/middleware"
)

// Options holds what every router needs
type Options struct {
	Logger    *zap.Logger
	Validator *auth.TokenValidator
	Env       string
}

func newEngine(opts Options, skipAuth []string) *gin.Engine {
	if opts.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(opts.Logger),
		logger.Recovery(opts.Logger),
		middleware.JWTAuth(middleware.JWTConfig{
			Validator: opts.Validator,
			SkipPaths: skipAuth,
		}),
	)
	return engine
}

// NewBrandRouter builds the brand service's engine
func NewBrandRouter(opts Options, brands *handler.BrandHandler, system *handler.SystemHandler) *gin.Engine {
	engine := newEngine(opts, []string{"/health"})

	engine.GET("/health", system.Health)

	group := engine.Group("/brands")
	{
		group.POST("", brands.Create)
		group.GET("", brands.List)
		group.GET("/:id", brands.GetByID)
		group.GET("/name/:name", brands.GetByName)
		group.PUT("/:id", brands.Update)
		group.DELETE("/:id", brands.Delete)
		group.POST("/upload", brands.Upload)
		group.GET("/download", brands.Download)
	}
	return engine
}

// NewCarRouter builds the car registry's engine
func NewCarRouter(opts Options, cars *handler.CarHandler, system *handler.SystemHandler) *gin.Engine {
	engine := newEngine(opts, []string{"/health"})

	engine.GET("/health", system.Health)

	group := engine.Group("/cars")
	{
		group.POST("", cars.Create)
		group.GET("", cars.List)
		group.GET("/:id", cars.GetByID)
		group.PUT("/:id", cars.Update)
		group.DELETE("/:id", cars.Delete)
		group.DELETE("/brand/:brandId", cars.DeleteByBrand)
		group.POST("/batch", cars.CreateBatch)
		group.POST("/upload", cars.Upload)
		group.GET("/download", cars.Download)
	}
	return engine
}
