package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"coffee-reco/internal/service"
)

const requestIDKey = "request_id"

// NewRouter configura el router de Gin con middlewares y rutas.
// reqMetrics y metricsHandler son opcionales.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	recoH *RecoHandler,
	collectionH *CollectionHandler,
	adminH *AdminHandler,
	reqMetrics RequestMetrics,
	metricsHandler http.Handler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: request id, logging, metricas, recovery y JSON content-type.
	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), metricsMiddleware(reqMetrics), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", adminH.Health)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	reco := r.Group("/reco")
	reco.POST("", OwnerAuthMiddleware(jwtSvc, false), recoH.Recommend)
	reco.POST("/top5", recoH.Top)
	reco.GET("/similar/:coffee_id", recoH.Similar)

	analyses := r.Group("/analyses")
	analyses.GET("/past", OwnerAuthMiddleware(jwtSvc, true), recoH.ListPast)
	analyses.POST("/sweep", adminH.Sweep)

	r.POST("/catalog/refresh", adminH.RefreshCatalog)

	collections := r.Group("/collections", OwnerAuthMiddleware(jwtSvc, true))
	collections.GET("", collectionH.Get)
	collections.POST("/save", collectionH.Save)
	collections.PUT("/update", collectionH.Update)
	collections.DELETE("/:collection_id", collectionH.Delete)
	collections.GET("/save-status", collectionH.SaveStatus)
	collections.GET("/name-check", collectionH.NameCheck)

	return r
}

// requestIDMiddleware propaga X-Request-ID o genera uno nuevo.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
	}
}

func metricsMiddleware(m RequestMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
