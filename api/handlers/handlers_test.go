// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package handlers

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/keyring"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/managedparams"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sa"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sdls"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/tcframe"
)

type stubRepo struct {
	assoc *sa.SA
}

func (r *stubRepo) GetBySPI(spi uint16) (*sa.SA, error) {
	if r.assoc == nil || r.assoc.SPI != spi {
		return nil, sa.ErrNotFound
	}
	return r.assoc, nil
}

func (r *stubRepo) GetOperational(g sa.GVCID) (*sa.SA, error) {
	if r.assoc == nil || r.assoc.GVCID != g || r.assoc.State != sa.Operational {
		return nil, sa.ErrNotFound
	}
	return r.assoc, nil
}

func (r *stubRepo) Save(s *sa.SA) error {
	r.assoc = s
	return nil
}

func newTestContext(t *testing.T) (*sdls.Context, *stubRepo) {
	t.Helper()
	assoc := &sa.SA{
		SPI:   1,
		GVCID: sa.GVCID{TFVN: 0, SCID: 3, VCID: 0},
		State: sa.Operational,
	}
	repo := &stubRepo{assoc: assoc}
	keys := keyring.Map{}
	cfg := sdls.Config{
		ManagedParams: []sdls.ManagedParamEntry{
			{Key: managedparams.Key{TFVN: 0, SCID: 3, VCID: 0}, Entry: managedparams.Entry{MaxFrameLength: 256}},
		},
	}
	ctx, err := sdls.NewTestContext(cfg, repo, keys)
	if err != nil {
		t.Fatalf("NewTestContext() error = %v", err)
	}
	return ctx, repo
}

func buildFrame() string {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	total := tcframe.PrimaryHeaderLen + len(payload)
	frame := make([]byte, total)
	h := tcframe.PrimaryHeader{SCID: 3, FrameLength: uint16(total - 1)}
	_ = h.Marshal(frame)
	copy(frame[tcframe.PrimaryHeaderLen:], payload)
	return hex.EncodeToString(frame)
}

func TestApplyThenProcessHandlerRoundTrip(t *testing.T) {
	ctx, _ := newTestContext(t)

	applyBody, _ := json.Marshal(applyRequest{Frame: buildFrame()})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tc/apply", bytes.NewReader(applyBody))
	rr := httptest.NewRecorder()
	ApplyHandler(ctx)(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("apply status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var applyResp applyResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &applyResp); err != nil {
		t.Fatalf("decode apply response: %v", err)
	}

	processBody, _ := json.Marshal(processRequest{Frame: applyResp.Frame})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/tc/process", bytes.NewReader(processBody))
	rr = httptest.NewRecorder()
	ProcessHandler(ctx)(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("process status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var processResp processResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &processResp); err != nil {
		t.Fatalf("decode process response: %v", err)
	}
	if processResp.Payload != "deadbeef" {
		t.Fatalf("Payload = %q, want deadbeef", processResp.Payload)
	}
}

func TestApplyHandlerRejectsNonHexFrame(t *testing.T) {
	ctx, _ := newTestContext(t)
	body, _ := json.Marshal(applyRequest{Frame: "not-hex"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tc/apply", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	ApplyHandler(ctx)(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestGetSAHandlerFound(t *testing.T) {
	_, repo := newTestContext(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sa/1", nil)
	req.SetPathValue("spi", "1")
	rr := httptest.NewRecorder()
	GetSAHandler(repo)(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"spi":1`) {
		t.Fatalf("body = %s, want spi field", rr.Body.String())
	}
}

func TestGetSAHandlerNotFound(t *testing.T) {
	_, repo := newTestContext(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sa/42", nil)
	req.SetPathValue("spi", "42")
	rr := httptest.NewRecorder()
	GetSAHandler(repo)(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	ctx, _ := newTestContext(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil)
	rr := httptest.NewRecorder()
	HealthHandler(ctx)(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}
