// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package api wires the demo HTTP surface onto a configured sdls.Context:
// a thin REST front door over ApplySecurity/ProcessSecurity and SA
// introspection, rate-limited per remote address.
package api

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// HTTPHandler wraps a mux with a per-remote-address rate limiter, layering
// that cross-cutting behavior over a plain http.ServeMux.
type HTTPHandler struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTPHandler returns an HTTPHandler that allows rps requests per second,
// per remote address, with the given burst allowance.
func NewHTTPHandler(rps float64, burst int) *HTTPHandler {
	return &HTTPHandler{
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (h *HTTPHandler) limiterFor(addr string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[addr]
	if !ok {
		l = rate.NewLimiter(h.rps, h.burst)
		h.limiters[addr] = l
	}
	return l
}

// RegisterRoutes wraps mux with the rate-limiting middleware and returns the
// resulting http.Handler.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !h.limiterFor(host).Allow() {
			slog.Debug("rate limit exceeded", "remote", host, "path", r.URL.Path)
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		mux.ServeHTTP(w, r)
	})
}
