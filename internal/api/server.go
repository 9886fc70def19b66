package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

const shutdownTimeout = 5 * time.Second

// Router builds the gin engine for h. An empty origins list allows any
// origin.
func Router(h *Hub, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")
	{
		api.GET("/world", h.getWorld)
		api.GET("/world.svg", h.snapshot)
		api.GET("/metrics", h.getMetrics)
		api.GET("/field", h.getField)

		api.GET("/bodies", h.getBodies)
		api.GET("/bodies/:index", h.getBody)
		api.POST("/bodies", h.addBody)
		api.PATCH("/bodies/:index", h.patchBody)
		api.DELETE("/bodies/:index", h.deleteBody)

		api.POST("/tick", h.tick)
		api.POST("/clock/pause", h.clock("pause"))
		api.POST("/clock/resume", h.clock("resume"))
		api.POST("/clock/faster", h.clock("faster"))
		api.POST("/clock/slower", h.clock("slower"))

		api.GET("/saves", h.listSaves)
		api.POST("/saves/:name", h.saveWorld)
		api.POST("/saves/:name/load", h.loadWorld)
		api.DELETE("/saves/:name", h.deleteSave)
	}
	return r
}

// requestLogger logs each request at debug level.
func requestLogger(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		level.Debug(logger).Log(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

// Serve runs the clock and the HTTP server on addr until ctx is done, then
// shuts both down.
func Serve(ctx context.Context, addr string, h *Hub, origins []string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Router(h, origins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	h.Start(ctx)
	defer h.Stop()

	errc := make(chan error, 1)
	go func() {
		level.Info(h.logger).Log("msg", "listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	level.Info(h.logger).Log("msg", "server stopped")
	return nil
}
