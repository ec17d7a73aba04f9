// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sdls"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "err", err)
	}
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeSdlsError maps an sdls.Status to an HTTP status code and writes a
// JSON error body naming the library status.
func writeSdlsError(w http.ResponseWriter, err error) {
	status := sdls.StatusOf(err)
	code := http.StatusInternalServerError
	switch status {
	case sdls.NullBuffer, sdls.InvalidCCFlag, sdls.InvalidFECF, sdls.AbmTooShortForAAD:
		code = http.StatusBadRequest
	case sdls.ManagedParametersForGVCIDNotFound:
		code = http.StatusNotFound
	case sdls.BadAntiReplayWindow, sdls.AuthenticationError, sdls.MacValidationError, sdls.MacRetrievalError, sdls.DecryptError:
		code = http.StatusUnauthorized
	case sdls.NoConfig, sdls.NoInit:
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, errorResponse{Status: status.String(), Message: err.Error()})
}
