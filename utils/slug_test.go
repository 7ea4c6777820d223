package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Casa", "casa"},
		{"São Paulo", "sao-paulo"},
		{"Ribeirão Preto-SP", "ribeirao-preto-sp"},
		{"  Apartamento de Cobertura  ", "apartamento-de-cobertura"},
		{"Terreno/Lote", "terreno-lote"},
		{"Açaí & Cia", "acai-cia"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
