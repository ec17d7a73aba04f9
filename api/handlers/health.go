// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package handlers

import (
	"net/http"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sdls"
)

// HealthHandler serves GET /api/v1/healthz: liveness plus an ApplySecurity/
// ProcessSecurity event-counter snapshot.
func HealthHandler(ctx *sdls.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ctx.Stats())
	}
}
