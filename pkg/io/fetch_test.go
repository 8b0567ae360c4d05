package io

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/gridtile/pkg/errors"
	"github.com/matzehuels/gridtile/pkg/httputil"
)

func TestIsURL(t *testing.T) {
	for in, want := range map[string]bool{
		"https://feed.example/gbw-1.json": true,
		"http://localhost/p":              true,
		"puzzles/gbw-1.json":              false,
		"httpdocs/gbw.json":               false,
	} {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFetchJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/daily/gbw-042.json":
			w.Write([]byte(`{"grid": ["AB", "C."], "circles": [0]}`))
		case "/bad.json":
			w.Write([]byte(`{"rows": 2, "cols": 2, "solution": "ABC"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := httputil.NewClient(nil, nil)
	ctx := context.Background()

	p, err := FetchJSON(ctx, client, srv.URL+"/daily/gbw-042.json", false)
	if err != nil {
		t.Fatalf("FetchJSON() error: %v", err)
	}
	if p.ID != "gbw-042" || p.Rows != 2 || p.Cols != 2 {
		t.Errorf("FetchJSON() = %+v", p)
	}

	if _, err := FetchJSON(ctx, client, srv.URL+"/bad.json", false); !errors.Is(err, errors.ErrCodeInvalidGrid) {
		t.Errorf("bad puzzle error = %v, want INVALID_GRID", err)
	}
	if _, err := FetchJSON(ctx, client, srv.URL+"/missing.json", false); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing puzzle error = %v, want NOT_FOUND", err)
	}
}
