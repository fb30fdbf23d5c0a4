package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/miracle380301/cryptoguardian/scoring"
	"github.com/miracle380301/cryptoguardian/store"
)

type stubValidator struct {
	res *scoring.ValidationResult
	err error

	gotDomain string
	gotType   scoring.RequestType
}

func (s *stubValidator) Validate(ctx context.Context, domain string, rtype scoring.RequestType) (*scoring.ValidationResult, error) {
	s.gotDomain = domain
	s.gotType = rtype
	return s.res, s.err
}

type stubReports struct {
	inserted []store.Report
	err      error
}

func (s *stubReports) Insert(ctx context.Context, rep store.Report) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, rep)
	return nil
}

func (s *stubReports) CountByDomain(ctx context.Context, domain string) (int, error) {
	return len(s.inserted), nil
}

type stubExchanges struct {
	rec store.ExchangeRecord
	err error
}

func (s *stubExchanges) Lookup(ctx context.Context, domain string) (store.ExchangeRecord, error) {
	if s.err != nil {
		return store.ExchangeRecord{}, s.err
	}
	return s.rec, nil
}

func newTestServer(v DomainValidator, reports store.Reports, exchanges store.ExchangeRegistry) *httptest.Server {
	srv := New(v, reports, exchanges, zerolog.Nop())
	return httptest.NewServer(srv.Routes())
}

func TestHandleValidate(t *testing.T) {
	v := &stubValidator{res: &scoring.ValidationResult{
		Domain:     "binance.com",
		FinalScore: 95,
		Status:     scoring.StatusSafe,
	}}
	ts := newTestServer(v, nil, nil)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/validate", "application/json",
		strings.NewReader(`{"domain":"binance.com","type":"crypto"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got scoring.ValidationResult
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Domain != "binance.com" || got.FinalScore != 95 || got.Status != scoring.StatusSafe {
		t.Errorf("body = %+v", got)
	}
	if v.gotType != scoring.RequestCrypto {
		t.Errorf("request type = %q, want crypto", v.gotType)
	}
}

func TestHandleValidateBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing domain", `{"type":"general"}`},
		{"blank domain", `{"domain":"   "}`},
		{"unknown type", `{"domain":"binance.com","type":"defi"}`},
	}

	v := &stubValidator{res: &scoring.ValidationResult{}}
	ts := newTestServer(v, nil, nil)
	defer ts.Close()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/validate", "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestHandleValidateInvalidDomainIs400(t *testing.T) {
	v := &stubValidator{err: fmt.Errorf("%w: %q", scoring.ErrInvalidDomain, "nodot")}
	ts := newTestServer(v, nil, nil)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/validate", "application/json",
		strings.NewReader(`{"domain":"nodot"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleValidateInternalErrorIs500(t *testing.T) {
	v := &stubValidator{err: errors.New("pipeline broke")}
	ts := newTestServer(v, nil, nil)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/validate", "application/json",
		strings.NewReader(`{"domain":"binance.com"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestHandleReport(t *testing.T) {
	reports := &stubReports{}
	ts := newTestServer(&stubValidator{}, reports, nil)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/reports", "application/json",
		strings.NewReader(`{"domain":"https://Scam-Site.com/steal","reason":"fake binance login","category":"phishing"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if len(reports.inserted) != 1 {
		t.Fatalf("%d reports stored, want 1", len(reports.inserted))
	}
	rep := reports.inserted[0]
	if rep.Domain != "scam-site.com" {
		t.Errorf("stored domain = %q, want normalized scam-site.com", rep.Domain)
	}
	if rep.Status != "pending" {
		t.Errorf("stored status = %q, want pending", rep.Status)
	}
	if rep.ID == "" {
		t.Error("report stored without an ID")
	}
}

func TestHandleReportValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"invalid domain", `{"domain":"nodot","reason":"x"}`},
		{"missing reason", `{"domain":"scam.com"}`},
	}

	ts := newTestServer(&stubValidator{}, &stubReports{}, nil)
	defer ts.Close()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/reports", "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestHandleReportDisabled(t *testing.T) {
	ts := newTestServer(&stubValidator{}, nil, nil)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/reports", "application/json",
		strings.NewReader(`{"domain":"scam.com","reason":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestHandleExchangeLookup(t *testing.T) {
	ex := &stubExchanges{rec: store.ExchangeRecord{ID: "binance", Name: "Binance", URL: "https://www.binance.com"}}
	ts := newTestServer(&stubValidator{}, nil, ex)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/exchanges/binance.com")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var rec store.ExchangeRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.Name != "Binance" {
		t.Errorf("body = %+v", rec)
	}
}

func TestHandleExchangeLookupNotFound(t *testing.T) {
	ex := &stubExchanges{err: store.ErrNotFound}
	ts := newTestServer(&stubValidator{}, nil, ex)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/exchanges/notanexchange.com")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(&stubValidator{}, nil, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
