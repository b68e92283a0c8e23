package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wahidmansoor/mwov2-sub006/internal/config"
	"github.com/wahidmansoor/mwov2-sub006/internal/domain/calculator"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           "8000",
		Env:            "test",
		LogLevel:       "info",
		CORSOrigins:    []string{"http://localhost:3000"},
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		BodyLimit:      "64K",
		RequestTimeout: 5 * time.Second,
	}
}

func TestServer_Health(t *testing.T) {
	e := newServer(testConfig(), zerolog.Nop(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestServer_NoDatabaseRoutesWithoutPool(t *testing.T) {
	e := newServer(testConfig(), zerolog.Nop(), nil)

	for _, path := range []string{"/health/db", "/api/v1/calculations"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestServer_CalculateBSA(t *testing.T) {
	e := newServer(testConfig(), zerolog.Nop(), nil)

	body := `{"height_cm": 170, "weight_kg": 70}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculators/bsa", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res calculator.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Valid || res.Value == nil || *res.Value != 1.82 {
		t.Errorf("unexpected result %+v", res)
	}
	if rec.Header().Get("X-RateLimit-Limit") == "" {
		t.Error("expected rate limit headers on API routes")
	}
}

func TestServer_BodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.BodyLimit = "16"
	e := newServer(cfg, zerolog.Nop(), nil)

	body := `{"height_cm": 170, "weight_kg": 70, "padding": "xxxxxxxxxxxxxxxx"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculators/bsa", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := calcCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCalcCmd_BSAText(t *testing.T) {
	out, err := runCLI(t, "bsa", "--height", "170", "--weight", "70")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Body Surface Area: 1.82 m²") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Normal BSA range") {
		t.Errorf("expected interpretation in output:\n%s", out)
	}
}

func TestCalcCmd_CarboplatinJSON(t *testing.T) {
	out, err := runCLI(t, "carboplatin", "-o", "json",
		"--creatinine", "1.2", "--age", "65", "--auc", "5", "--sex", "male")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var res calculator.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if res.Value == nil || *res.Value != 429 {
		t.Errorf("expected dose 429, got %+v", res.Value)
	}
}

func TestCalcCmd_InvalidInputExitsNonZero(t *testing.T) {
	out, err := runCLI(t, "creatinine-clearance", "--age", "60", "--weight", "70", "--creatinine", "1.0")
	if !errors.Is(err, errInvalidInput) {
		t.Fatalf("expected errInvalidInput, got %v", err)
	}
	if !strings.Contains(out, "invalid input") || !strings.Contains(out, "sex: is required") {
		t.Errorf("expected missing-sex detail in output:\n%s", out)
	}
}

func TestCalcCmd_OverflowJSON(t *testing.T) {
	out, err := runCLI(t, "creatinine-clearance", "-o", "json",
		"--age", "65", "--weight", "70", "--creatinine", "1e-320", "--sex", "male")
	if !errors.Is(err, errInvalidInput) {
		t.Fatalf("expected errInvalidInput, got %v", err)
	}
	var res calculator.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if res.Valid || res.Value != nil {
		t.Errorf("expected invalid result without value, got %+v", res)
	}
}

func TestCalcCmd_UnknownOutput(t *testing.T) {
	_, err := runCLI(t, "bsa", "-o", "yaml", "--height", "170", "--weight", "70")
	if err == nil || errors.Is(err, errInvalidInput) {
		t.Errorf("expected output format error, got %v", err)
	}
}

func TestMigrationFiles_Embedded(t *testing.T) {
	entries, err := fs.Glob(migrationFiles(""), "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(entries) == 0 {
		t.Error("expected embedded migrations")
	}
}
