package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
)

func TestAnalyzePostsImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != AnalyzePath {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["imageBase64"] != "data:image/jpeg;base64,AAAA" {
			t.Errorf("imageBase64 = %q", body["imageBase64"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"plant_type":"Albahaca","health_status":"Saludable","confidence":97,"diagnosis":"sana","recommendations":"sol"}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, nil).Analyze(context.Background(), "data:image/jpeg;base64,AAAA")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.PlantType != "Albahaca" || res.Confidence != 97 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestAnalyzeLenientBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"plant_type":"Tomate","health_status":"Requiere Atención","confidence":"78",` +
			`"pigmentation":{"leaf_color":"amarillo","indicators":"clorosis"},` +
			`"diagnosis":"d","recommendations":["regar","abonar"],"issues":"hojas amarillas"}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, nil).Analyze(context.Background(), "x")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Pigmentation == nil || len(res.Pigmentation.Indicators) != 1 || res.Pigmentation.Indicators[0] != "clorosis" {
		t.Errorf("pigmentation = %+v", res.Pigmentation)
	}
	if res.Recommendations != "regar; abonar" || len(res.Issues) != 1 || res.Confidence != 78 {
		t.Errorf("result = %+v", res)
	}
}

func TestAnalyzeUnreadableBodyIsMalformed(t *testing.T) {
	for _, body := range []string{`<html>oops</html>`, `{"plant_type":"Rosa"}`, `{"plant_type":`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		_, err := NewClient(srv.URL, nil).Analyze(context.Background(), "x")
		srv.Close()
		if !errors.Is(err, analysis.ErrMalformedResponse) {
			t.Errorf("body %s: err = %v, want ErrMalformedResponse", body, err)
		}
	}
}

func TestAnalyzeMapsKnownErrors(t *testing.T) {
	tests := []struct {
		body string
		want error
	}{
		{`{"error":"No se proporcionó imagen"}`, analysis.ErrMissingInput},
		{`{"error":"Límite de solicitudes excedido. Por favor, intenta de nuevo en unos momentos."}`, analysis.ErrRateLimited},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(tt.body))
		}))
		_, err := NewClient(srv.URL, nil).Analyze(context.Background(), "x")
		srv.Close()
		if !errors.Is(err, tt.want) {
			t.Errorf("body %s: err = %v, want %v", tt.body, err, tt.want)
		}
	}
}

func TestAnalyzeUnknownErrorKeepsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Error del gateway de IA: 503"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).Analyze(context.Background(), "x")
	if err == nil || err.Error() != "Error del gateway de IA: 503" {
		t.Errorf("err = %v", err)
	}
}

func TestListRecentAndInsert(t *testing.T) {
	created := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			if r.URL.Query().Get("limit") != "10" {
				t.Errorf("limit = %q", r.URL.Query().Get("limit"))
			}
			w.Write([]byte(`[]`))
		case http.MethodPost:
			var body struct {
				ImageURL string          `json:"image_url"`
				Analysis analysis.Result `json:"analysis"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			rec := analysis.NewRecord("rec-1", created, body.ImageURL, body.Analysis)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(rec)
		}
	}))
	defer srv.Close()
	c := NewClient(srv.URL, nil)

	list, err := c.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("list = %v, want empty non-nil", list)
	}

	rec := analysis.NewRecord("", time.Time{}, "data:image/png;base64,AA", analysis.Result{PlantType: "Cactus"})
	if err := c.Insert(context.Background(), rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if rec.ID != "rec-1" || !rec.CreatedAt.Equal(created) {
		t.Errorf("record not updated from response: %+v", rec)
	}
}

func TestInsertFailureIsStoreError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"db down"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, nil).Insert(context.Background(), &analysis.Record{})
	if !errors.Is(err, analysis.ErrStore) {
		t.Errorf("err = %v, want ErrStore", err)
	}
}
