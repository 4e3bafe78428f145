package matcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ordanov/datasvc/model"
	"github.com/ordanov/datasvc/service"
)

func ratesHandler(t *testing.T, rateFor func(model.IDPair) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ratesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("malformed request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		resp := ratesResponse{}
		for _, pair := range req.Pairs {
			resp.Rates = append(resp.Rates, model.RateWithPairIDs{
				AmountAsset: pair.AmountAsset,
				PriceAsset:  pair.PriceAsset,
				Rate:        decimal.RequireFromString(rateFor(pair)),
			})
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func TestMgetOrderPreserved(t *testing.T) {
	srv := httptest.NewServer(ratesHandler(t, func(p model.IDPair) string {
		if p.AmountAsset == "AAA" {
			return "2"
		}
		return "4"
	}))
	defer srv.Close()

	client, err := New(srv.URL+"/", "")
	if err != nil {
		t.Fatal(err)
	}

	pairs := []model.IDPair{
		{AmountAsset: "AAA", PriceAsset: "WAVES"},
		{AmountAsset: "BBB", PriceAsset: "WAVES"},
	}
	rates, err := client.Mget(context.Background(), service.RateMgetRequest{
		Pairs:   pairs,
		Matcher: "m",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != len(pairs) {
		t.Fatalf("expected %d records, got %d", len(pairs), len(rates))
	}
	for i, pair := range pairs {
		if rates[i].AmountAsset != pair.AmountAsset || rates[i].PriceAsset != pair.PriceAsset {
			t.Errorf("record %d out of order: %+v", i, rates[i])
		}
	}
	if !rates[0].Rate.Equal(decimal.RequireFromString("2")) {
		t.Errorf("rate 0: expected 2, got %s", rates[0].Rate)
	}
}

func TestMgetPartialResponseRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// one record short of the request
		json.NewEncoder(w).Encode(ratesResponse{Rates: []model.RateWithPairIDs{{
			AmountAsset: "AAA", PriceAsset: "WAVES", Rate: decimal.NewFromInt(1),
		}}})
	}))
	defer srv.Close()

	client, err := New(srv.URL+"/", "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Mget(context.Background(), service.RateMgetRequest{
		Pairs: []model.IDPair{
			{AmountAsset: "AAA", PriceAsset: "WAVES"},
			{AmountAsset: "BBB", PriceAsset: "WAVES"},
		},
		Matcher: "m",
	})
	if err == nil {
		t.Fatal("partial result arrays must be rejected")
	}
	var srcErr *service.SourceError
	if !errors.As(err, &srcErr) {
		t.Errorf("expected a source error, got %v", err)
	}
}

func TestMgetEmptyRequestSkipsNetwork(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client, err := New(srv.URL+"/", "")
	if err != nil {
		t.Fatal(err)
	}

	rates, err := client.Mget(context.Background(), service.RateMgetRequest{Matcher: "m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rates != nil {
		t.Errorf("expected no records, got %d", len(rates))
	}
	if hits.Load() != 0 {
		t.Errorf("empty request must not hit the network, got %d requests", hits.Load())
	}
}

func TestMgetRetriesServerErrors(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		ratesHandler(t, func(model.IDPair) string { return "3" })(w, r)
	}))
	defer srv.Close()

	client, err := New(srv.URL+"/", "")
	if err != nil {
		t.Fatal(err)
	}

	rates, err := client.Mget(context.Background(), service.RateMgetRequest{
		Pairs:   []model.IDPair{{AmountAsset: "AAA", PriceAsset: "WAVES"}},
		Matcher: "m",
	})
	if err != nil {
		t.Fatalf("expected the retry to succeed: %v", err)
	}
	if !rates[0].Rate.Equal(decimal.RequireFromString("3")) {
		t.Errorf("rate: expected 3, got %s", rates[0].Rate)
	}
	if hits.Load() != 2 {
		t.Errorf("expected one failed attempt and one retry, got %d requests", hits.Load())
	}
}

func TestSettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/matcher/settings" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(settingsResponse{PriceAssets: []string{"WAVES", "BTC"}})
	}))
	defer srv.Close()

	client, err := New(srv.URL+"/", "")
	if err != nil {
		t.Fatal(err)
	}

	priceAssets, err := client.Settings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(priceAssets) != 2 || priceAssets[0] != "WAVES" {
		t.Errorf("unexpected settings: %v", priceAssets)
	}
}

func TestAPIKeyAttached(t *testing.T) {
	var gotKey atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("X-API-Key"))
		json.NewEncoder(w).Encode(settingsResponse{})
	}))
	defer srv.Close()

	client, err := New(srv.URL+"/", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Settings(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey.Load() != "secret" {
		t.Errorf("expected the api key header, got %q", gotKey.Load())
	}
}
