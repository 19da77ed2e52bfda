package lookup

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/locadora/rental-system/internal/core/domain"
)

const zipCodeLength = 8

// ViaCepClient resolves Brazilian postal codes into addresses. It fails
// closed: unknown codes and transport errors both resolve to a nil address,
// never an error, so address autofill can only ever degrade.
type ViaCepClient struct {
	httpClient *http.Client
	baseURL    string
	log        zerolog.Logger
}

// NewViaCepClient builds a client against the given base URL (the production
// endpoint is https://viacep.com.br/ws).
func NewViaCepClient(httpClient *http.Client, baseURL string, log zerolog.Logger) *ViaCepClient {
	return &ViaCepClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		log:        log,
	}
}

type viaCepResponse struct {
	Cep        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

// AddressByZipCode resolves a postal code. Formatting characters in the
// input are ignored.
func (c *ViaCepClient) AddressByZipCode(ctx context.Context, zipCode string) (*domain.Address, error) {
	clean := digits(zipCode)
	if len(clean) != zipCodeLength {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+clean+"/json/", nil)
	if err != nil {
		return nil, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("zip_code", clean).Msg("postal lookup failed")
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Str("zip_code", clean).Msg("postal lookup failed")
		return nil, nil
	}

	var body viaCepResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Warn().Err(err).Str("zip_code", clean).Msg("postal lookup returned malformed body")
		return nil, nil
	}

	if body.Erro {
		return nil, nil
	}

	return &domain.Address{
		ZipCode:      body.Cep,
		Street:       body.Logradouro,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}, nil
}

// FormatZipCode renders an 8-digit code as 00000-000. Anything else passes
// through unchanged.
func FormatZipCode(zipCode string) string {
	clean := digits(zipCode)
	if len(clean) != zipCodeLength {
		return zipCode
	}
	return clean[:5] + "-" + clean[5:]
}

// IsValidZipCode reports whether the input contains exactly eight digits.
func IsValidZipCode(zipCode string) bool {
	return len(digits(zipCode)) == zipCodeLength
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
