// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package handlers

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sa"
)

type saResponse struct {
	SPI         uint16 `json:"spi"`
	TFVN        uint8  `json:"tfvn"`
	SCID        uint16 `json:"scid"`
	VCID        uint8  `json:"vcid"`
	MapID       uint8  `json:"map_id"`
	State       string `json:"state"`
	ServiceType string `json:"service_type"`
	ARC         string `json:"arc"`
}

func toSAResponse(s *sa.SA) saResponse {
	return saResponse{
		SPI:         s.SPI,
		TFVN:        s.GVCID.TFVN,
		SCID:        s.GVCID.SCID,
		VCID:        s.GVCID.VCID,
		MapID:       s.GVCID.MapID,
		State:       s.State.String(),
		ServiceType: s.ServiceType().String(),
		ARC:         hex.EncodeToString(s.ARC),
	}
}

// GetSAHandler serves GET /api/v1/sa/{spi}: it returns the current state of
// a single Security Association.
func GetSAHandler(repo sa.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		spiStr := r.PathValue("spi")
		spi, err := strconv.ParseUint(spiStr, 10, 16)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Status: "BAD_REQUEST", Message: "spi must be a non-negative integer"})
			return
		}
		assoc, err := repo.GetBySPI(uint16(spi))
		if err != nil {
			if errors.Is(err, sa.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Status: "NOT_FOUND", Message: err.Error()})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Status: "ERR", Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, toSAResponse(assoc))
	}
}
