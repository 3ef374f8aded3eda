package main

import (
	"context"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "biblioteca/docs"
	"biblioteca/internal/book"
	"biblioteca/internal/config"
	"biblioteca/internal/httpx"
)

const docsPrefix = "/api-docs"

func newRateLimiter(cfg config.Config) *httpx.RateLimitMiddleware {
	return httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustedProxies...)
}

func newRouter(cfg config.Config, service *book.Service, limiter *httpx.RateLimitMiddleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.Text(w, http.StatusOK, "ok")
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := service.Ready(ctx); err != nil {
			httpx.Text(w, http.StatusServiceUnavailable, "store not ready")
			return
		}
		httpx.Text(w, http.StatusOK, "ready")
	})

	mux.Handle("GET "+docsPrefix+"/", httpSwagger.Handler(httpSwagger.URL(docsPrefix+"/doc.json")))
	mux.Handle("GET "+docsPrefix, http.RedirectHandler(docsPrefix+"/index.html", http.StatusMovedPermanently))

	book.NewHTTPHandler(service).RegisterRoutes(mux)

	return httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.CORSMiddleware(cfg.CORSAllowedOrigins),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS, docsPrefix),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
		limiter.Middleware,
	)
}
