// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package handlers

import (
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sdls"
)

type applyRequest struct {
	Frame string `json:"frame"` // hex-encoded plaintext TC frame
}

type applyResponse struct {
	Frame string `json:"frame"` // hex-encoded protected TC frame
}

// ApplyHandler serves POST /api/v1/tc/apply: it runs ctx.ApplySecurity over
// a hex-encoded plaintext TC frame and returns the protected frame, also
// hex-encoded.
func ApplyHandler(ctx *sdls.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req applyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Status: "BAD_REQUEST", Message: err.Error()})
			return
		}
		frame, err := hex.DecodeString(req.Frame)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Status: "BAD_REQUEST", Message: "frame must be hex-encoded"})
			return
		}

		out, err := ctx.ApplySecurity(frame)
		if err != nil {
			slog.Debug("ApplySecurity failed", "err", err)
			writeSdlsError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, applyResponse{Frame: hex.EncodeToString(out)})
	}
}
