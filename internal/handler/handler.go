// Package handler содержит HTTP-обработчики прокси-сервера панели.
package handler

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/mmeshcher/coins-admin/internal/middleware"
)

// Options — параметры прокси.
type Options struct {
	// APIURL — базовый адрес API сервера. Путь отбрасывается: запрос /api/... уходит на тот же путь.
	APIURL        string
	AllowedOrigin string
	Transport     http.RoundTripper
}

// Handler проксирует запросы панели к серверу монет.
type Handler struct {
	target         *url.URL
	proxy          *httputil.ReverseProxy
	allowedOrigin  string
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт обработчик прокси.
func NewHandler(opts Options, logger *zap.Logger, auth *middleware.AuthMiddleware) (*Handler, error) {
	target, err := TargetOrigin(opts.APIURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if auth == nil {
		auth = middleware.NewAuthMiddleware(nil, logger)
	}

	h := &Handler{
		target:         target,
		allowedOrigin:  opts.AllowedOrigin,
		logger:         logger,
		authMiddleware: auth,
	}
	h.proxy = &httputil.ReverseProxy{
		Rewrite:        h.rewrite,
		Transport:      opts.Transport,
		ModifyResponse: h.modifyResponse,
		ErrorHandler:   h.proxyError,
	}
	return h, nil
}

// TargetOrigin выделяет схему и хост из адреса API.
func TargetOrigin(apiURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(apiURL))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse api url: %q is not absolute", apiURL)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}

func (h *Handler) rewrite(pr *httputil.ProxyRequest) {
	pr.SetURL(h.target)
	pr.SetXForwarded()
	h.logger.Debug("proxy request",
		zap.String("method", pr.In.Method),
		zap.String("path", pr.In.URL.Path),
		zap.String("target", pr.Out.URL.String()),
		zap.Bool("auth_header", pr.Out.Header.Get("Authorization") != ""),
		zap.Bool("auth_injected", middleware.InjectedFromContext(pr.In.Context())),
	)
}

// modifyResponse убирает CORS-заголовки сервера: их выставляет прокси.
func (h *Handler) modifyResponse(resp *http.Response) error {
	for k := range resp.Header {
		if strings.HasPrefix(k, "Access-Control-") {
			resp.Header.Del(k)
		}
	}
	h.logger.Debug("proxy response", zap.Int("status", resp.StatusCode), zap.String("path", resp.Request.URL.Path))
	return nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *Handler) proxyError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("proxy error", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Proxy error", Message: err.Error()})
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Target  string `json:"target"`
}

// Health сообщает, что прокси работает, и куда он направляет запросы.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Message: "Proxy server is running",
		Target:  h.target.String(),
	})
}

// Proxy передаёт запрос серверу монет.
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	h.proxy.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
