package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"imovelhub/config"
)

func TestNormalizeCEP(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"01310-100", "01310100", false},
		{"01310100", "01310100", false},
		{" 01310 100 ", "01310100", false},
		{"1310100", "", true},
		{"013101000", "", true},
		{"abcdefgh", "", true},
		{"", "", true},
	}

	for _, tc := range tests {
		got, err := NormalizeCEP(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidCEP) {
				t.Errorf("NormalizeCEP(%q) err = %v, want ErrInvalidCEP", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeCEP(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeCEP(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCEP(t *testing.T) {
	if got := FormatCEP("01310100"); got != "01310-100" {
		t.Errorf("FormatCEP = %q, want 01310-100", got)
	}
}

func TestFetchAddressByCEPRejectsLocally(t *testing.T) {
	// A malformed code must fail before any request is made; the
	// sentinel server proves no call went out.
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	prev := config.AppConfig.ViaCEPBaseURL
	config.AppConfig.ViaCEPBaseURL = server.URL
	defer func() { config.AppConfig.ViaCEPBaseURL = prev }()

	_, err := FetchAddressByCEP("123")
	if !errors.Is(err, ErrInvalidCEP) {
		t.Fatalf("err = %v, want ErrInvalidCEP", err)
	}
	if called {
		t.Error("malformed CEP must not reach the network")
	}
}

func TestFetchAddressByCEP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ws/01310100/json/":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
		case "/ws/99999999/json/":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"erro":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	prev := config.AppConfig.ViaCEPBaseURL
	config.AppConfig.ViaCEPBaseURL = server.URL
	defer func() { config.AppConfig.ViaCEPBaseURL = prev }()

	address, err := FetchAddressByCEP("01310-100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if address.City != "São Paulo" || address.State != "SP" {
		t.Errorf("address = %+v, want São Paulo/SP", address)
	}
	if address.Street != "Avenida Paulista" {
		t.Errorf("street = %q, want Avenida Paulista", address.Street)
	}

	_, err = FetchAddressByCEP("99999-999")
	if !errors.Is(err, ErrCEPNotFound) {
		t.Fatalf("err = %v, want ErrCEPNotFound", err)
	}
}
