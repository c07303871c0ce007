package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aulaeco/recicla-backend/api/middleware"
	"github.com/aulaeco/recicla-backend/internal/ledger"
	pkgerrors "github.com/aulaeco/recicla-backend/pkg/errors"
)

type stubLedgerService struct {
	record  *ledger.Record
	records []ledger.Record
	admin   []ledger.AdminRecord
	totals  []ledger.MaterialTotal
	global  *ledger.GlobalTotals
	series  []ledger.MonthTotal
	err     error

	gotSubmit *ledger.SubmitInput
	gotUserID uint
	gotFrom   string
	gotGlobal bool
}

func (s *stubLedgerService) Submit(ctx context.Context, input ledger.SubmitInput) (*ledger.Record, error) {
	s.gotSubmit = &input
	return s.record, s.err
}

func (s *stubLedgerService) RecordsForUser(ctx context.Context, userID uint, from string) ([]ledger.Record, error) {
	s.gotUserID = userID
	s.gotFrom = from
	return s.records, s.err
}

func (s *stubLedgerService) PublicRecords(ctx context.Context, from string) ([]ledger.Record, error) {
	s.gotFrom = from
	return s.records, s.err
}

func (s *stubLedgerService) AdminRecords(ctx context.Context, from string) ([]ledger.AdminRecord, error) {
	s.gotFrom = from
	return s.admin, s.err
}

func (s *stubLedgerService) UserStats(ctx context.Context, userID uint, from string) ([]ledger.MaterialTotal, error) {
	s.gotUserID = userID
	return s.totals, s.err
}

func (s *stubLedgerService) LedgerStats(ctx context.Context, from string) ([]ledger.MaterialTotal, error) {
	s.gotGlobal = true
	return s.totals, s.err
}

func (s *stubLedgerService) GlobalStats(ctx context.Context, from string) (*ledger.GlobalTotals, error) {
	return s.global, s.err
}

func (s *stubLedgerService) Evolution(ctx context.Context, userID uint, from string) ([]ledger.MonthTotal, error) {
	s.gotUserID = userID
	return s.series, s.err
}

func (s *stubLedgerService) GlobalEvolution(ctx context.Context, from string) ([]ledger.MonthTotal, error) {
	s.gotGlobal = true
	return s.series, s.err
}

func authedRequest(method, target string, body []byte, userID uint, role string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := middleware.WithActor(req.Context(), userID, "tester", role)
	return req.WithContext(ctx)
}

func TestCreateRecyclingSuccess(t *testing.T) {
	svc := &stubLedgerService{record: &ledger.Record{ID: 7, Material: "Tetra Pak", Quantity: 3, Points: 18}}
	handler := CreateRecycling(svc, nil)

	req := authedRequest(http.MethodPost, "/api/recyclings", []byte(`{"material":"tetra-pak","quantity":3}`), 2, "user")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.gotSubmit == nil || svc.gotSubmit.UserID != 2 {
		t.Fatalf("expected submit for user 2 got %+v", svc.gotSubmit)
	}

	var envelope struct {
		Data ledger.Record `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Points != 18 {
		t.Fatalf("expected 18 points got %d", envelope.Data.Points)
	}
}

func TestCreateRecyclingRejectsInvalidBody(t *testing.T) {
	handler := CreateRecycling(&stubLedgerService{}, nil)

	req := authedRequest(http.MethodPost, "/api/recyclings", []byte(`{"quantity":3}`), 2, "user")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateRecyclingRejectsNonEnforcedMaterial(t *testing.T) {
	svc := &stubLedgerService{err: pkgerrors.New(pkgerrors.CodeValidation, "material is not accepted")}
	handler := CreateRecycling(svc, nil)

	req := authedRequest(http.MethodPost, "/api/recyclings", []byte(`{"material":"vidrio","quantity":1}`), 2, "user")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateRecyclingRequiresUserContext(t *testing.T) {
	handler := CreateRecycling(&stubLedgerService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/recyclings", bytes.NewReader([]byte(`{"material":"Aluminio","quantity":1}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestMyRecordsPassesFromFilter(t *testing.T) {
	svc := &stubLedgerService{records: []ledger.Record{{ID: 1, Material: "Aluminio"}}}
	handler := MyRecords(svc, nil)

	req := authedRequest(http.MethodGet, "/api/me/records?from=2026-01-01", nil, 3, "user")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotUserID != 3 || svc.gotFrom != "2026-01-01" {
		t.Fatalf("expected user 3 from 2026-01-01 got user %d from %q", svc.gotUserID, svc.gotFrom)
	}
}

func TestMyRecordsRejectsBadFromDate(t *testing.T) {
	handler := MyRecords(&stubLedgerService{}, nil)

	req := authedRequest(http.MethodGet, "/api/me/records?from=ayer", nil, 3, "user")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestPublicRecyclingsNeedsNoAuth(t *testing.T) {
	svc := &stubLedgerService{records: []ledger.Record{{ID: 1, Material: "Tetra Pak"}}}
	handler := PublicRecyclings(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/public/recyclings", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdminRecyclingsIncludeUsernames(t *testing.T) {
	svc := &stubLedgerService{admin: []ledger.AdminRecord{{Record: ledger.Record{ID: 1}, Username: "Julian"}}}
	handler := AdminRecyclings(svc, nil)

	req := authedRequest(http.MethodGet, "/api/admin/recyclings", nil, 1, "admin")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []ledger.AdminRecord `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Username != "Julian" {
		t.Fatalf("expected one record for Julian got %+v", envelope.Data)
	}
}
