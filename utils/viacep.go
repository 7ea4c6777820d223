package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"imovelhub/config"
)

// Address is the result of a postal-code lookup.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type viaCepResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

var (
	ErrInvalidCEP  = errors.New("cep must contain exactly 8 digits")
	ErrCEPNotFound = errors.New("cep not found")
)

// NormalizeCEP strips formatting and validates the code locally. A
// malformed code is rejected before any network call.
func NormalizeCEP(cep string) (string, error) {
	var b strings.Builder
	for _, r := range cep {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if len(clean) != 8 {
		return "", ErrInvalidCEP
	}
	return clean, nil
}

// FormatCEP renders a clean 8-digit code as 01310-100.
func FormatCEP(clean string) string {
	if len(clean) != 8 {
		return clean
	}
	return clean[:5] + "-" + clean[5:]
}

// FetchAddressByCEP resolves a postal code through ViaCEP.
func FetchAddressByCEP(cep string) (*Address, error) {
	clean, err := NormalizeCEP(cep)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/ws/%s/json/", config.AppConfig.ViaCEPBaseURL, clean)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := fasthttp.DoTimeout(req, resp, 10*time.Second); err != nil {
		return nil, fmt.Errorf("cep lookup failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("cep lookup failed: status %d", resp.StatusCode())
	}

	var data viaCepResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return nil, fmt.Errorf("cep lookup failed: %w", err)
	}

	if data.Erro {
		return nil, ErrCEPNotFound
	}

	return &Address{
		CEP:          data.CEP,
		Street:       data.Logradouro,
		Neighborhood: data.Bairro,
		City:         data.Localidade,
		State:        data.UF,
	}, nil
}
