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

type processRequest struct {
	Frame string `json:"frame"` // hex-encoded protected TC frame
}

type processResponse struct {
	SPI           uint16 `json:"spi"`
	Payload       string `json:"payload"`        // hex-encoded cleartext payload
	ExtendedReply string `json:"extended_reply,omitempty"` // hex-encoded, set only when the Extended-Procedure Bridge ran
}

// ProcessHandler serves POST /api/v1/tc/process: it runs
// ctx.ProcessSecurity over a hex-encoded protected TC frame and returns the
// validated payload.
func ProcessHandler(ctx *sdls.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req processRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Status: "BAD_REQUEST", Message: err.Error()})
			return
		}
		frame, err := hex.DecodeString(req.Frame)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Status: "BAD_REQUEST", Message: "frame must be hex-encoded"})
			return
		}

		parsed, err := ctx.ProcessSecurity(frame)
		if err != nil {
			slog.Debug("ProcessSecurity failed", "err", err)
			writeSdlsError(w, err)
			return
		}
		resp := processResponse{
			SPI:     parsed.SPI,
			Payload: hex.EncodeToString(parsed.Payload),
		}
		if parsed.ExtendedReply != nil {
			resp.ExtendedReply = hex.EncodeToString(parsed.ExtendedReply)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
