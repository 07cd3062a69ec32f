package utility

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/config"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/domain"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/ports/out"
)

type nopLogger struct{}

func (l nopLogger) Debug(string, out.LogFields) {}
func (l nopLogger) Info(string, out.LogFields)  {}
func (l nopLogger) Warn(string, out.LogFields)  {}
func (l nopLogger) Error(string, out.LogFields) {}
func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Utility.URL = baseURL
	cfg.Utility.GuestUsername = "guest"
	cfg.Utility.GuestPassword = "guest"
	return cfg
}

func newAdapter(baseURL string) *UtilityAdapter {
	cfg := testConfig(baseURL)
	token := NewTokenProvider(cfg, nopLogger{})
	return NewUtilityAdapter(cfg, token, nopLogger{})
}

func TestFindPremise(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/addressFind", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "3628 S 35th St", req["address"])

		w.Write([]byte(`{"address":[{"premCode":"PREM-100"},{"premCode":"PREM-200"}]}`))
	}))
	defer server.Close()

	premCode, err := newAdapter(server.URL).FindPremise(context.Background(), "3628 S 35th St")
	require.NoError(t, err)
	// Берется первый элемент списка
	assert.Equal(t, "PREM-100", premCode)
}

func TestFindPremiseAddressNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":[]}`))
	}))
	defer server.Close()

	_, err := newAdapter(server.URL).FindPremise(context.Background(), "123 Fake St")

	var addressErr *domain.AddressNotFoundError
	require.ErrorAs(t, err, &addressErr)
	assert.Contains(t, err.Error(), "123 Fake St")
}

func TestFindPremiseServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newAdapter(server.URL).FindPremise(context.Background(), "3628 S 35th St")

	var requestErr *domain.RequestError
	require.ErrorAs(t, err, &requestErr)
	assert.Equal(t, http.StatusInternalServerError, requestErr.StatusCode)
	assert.Equal(t, "Internal Server Error", requestErr.Message)
}

func TestFindPremiseMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address": not json`))
	}))
	defer server.Close()

	_, err := newAdapter(server.URL).FindPremise(context.Background(), "3628 S 35th St")

	// Некорректный JSON при успешном статусе - тоже ошибка запроса
	var requestErr *domain.RequestError
	require.ErrorAs(t, err, &requestErr)
	assert.Equal(t, http.StatusOK, requestErr.StatusCode)
}

func TestFindAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accountFind", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "PREM-100", req["premCode"])

		w.Write([]byte(`{"account":{"accountNumber":"ACCT-1"}}`))
	}))
	defer server.Close()

	accountNumber, err := newAdapter(server.URL).FindAccount(context.Background(), "PREM-100")
	require.NoError(t, err)
	assert.Equal(t, "ACCT-1", accountNumber)
}

func TestFindAccountNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"account":{}}`))
	}))
	defer server.Close()

	_, err := newAdapter(server.URL).FindAccount(context.Background(), "PREM-100")

	var accountErr *domain.AccountNotFoundError
	require.ErrorAs(t, err, &accountErr)
	assert.Equal(t, "PREM-100", accountErr.PremiseCode)
}

func TestTokenProviderCachesToken(t *testing.T) {
	authCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/guest", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "guest", req["username"])
		require.Equal(t, "guest", req["password"])

		authCalls++
		w.Write([]byte(`{"access_token":"tok-123"}`))
	}))
	defer server.Close()

	provider := NewTokenProvider(testConfig(server.URL), nopLogger{})

	header, err := provider.Header(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", header)

	// Повторный вызов отдает кэш, нового запроса нет
	header, err = provider.Header(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", header)
	assert.Equal(t, 1, authCalls)
}

func TestTokenProviderMissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"bearer"}`))
	}))
	defer server.Close()

	provider := NewTokenProvider(testConfig(server.URL), nopLogger{})

	_, err := provider.Header(context.Background())

	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestTokenProviderServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	provider := NewTokenProvider(testConfig(server.URL), nopLogger{})

	_, err := provider.Header(context.Background())

	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestFindServicePoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/guest":
			w.Write([]byte(`{"access_token":"tok-123"}`))
		case "/swsummary":
			require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

			var req map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			accountContext := req["accountContext"].(map[string]interface{})
			require.Equal(t, "ACCT-1", accountContext["accountNumber"])
			// Плейсхолдеры должны присутствовать и быть null
			require.Contains(t, accountContext, "personId")
			require.Nil(t, accountContext["personId"])
			require.Contains(t, accountContext, "serviceAddress")
			require.Nil(t, accountContext["serviceAddress"])

			w.Write([]byte(`{
				"accountContext": {"personId": "PER-9", "companyCd": "CO-1"},
				"accountSummaryType": {"swServices": [{"services": [
					{"description": "Garbage", "servicePointId": "SP-G"},
					{"description": "Recycle", "servicePointId": "SP-R"}
				]}]}
			}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	result, err := newAdapter(server.URL).FindServicePoints(context.Background(), "ACCT-1")
	require.NoError(t, err)

	assert.Equal(t, "PER-9", result.PersonID)
	assert.Equal(t, "CO-1", result.CompanyCode)
	assert.Equal(t, domain.ServicePointMap{
		"Garbage": "SP-G",
		"Recycle": "SP-R",
	}, result.Points)
}

func TestFindServicePointsNoServices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/guest":
			w.Write([]byte(`{"access_token":"tok-123"}`))
		case "/swsummary":
			w.Write([]byte(`{"accountSummaryType":{"swServices":[]}}`))
		}
	}))
	defer server.Close()

	_, err := newAdapter(server.URL).FindServicePoints(context.Background(), "ACCT-1")

	var requestErr *domain.RequestError
	require.ErrorAs(t, err, &requestErr)
}

func TestGetCollectionDates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/guest":
			w.Write([]byte(`{"access_token":"tok-123"}`))
		case "/solidwastecalendar":
			require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

			var req swCalendarRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "ACCT-1", req.AccountContext.AccountNumber)
			require.Equal(t, "PER-9", req.AccountContext.PersonID)
			require.ElementsMatch(t, []string{"SP-G", "SP-R"}, req.ServicePoints)

			w.Write([]byte(`{"calendar":{"SP-G":["03/01/2024","03/08/2024"],"SP-R":["03/08/2024"]}}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	account := domain.Account{AccountNumber: "ACCT-1", PersonID: "PER-9", CompanyCode: "CO-1"}

	dates, err := newAdapter(server.URL).GetCollectionDates(context.Background(), account, []string{"SP-G", "SP-R"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"SP-G": {"03/01/2024", "03/08/2024"},
		"SP-R": {"03/08/2024"},
	}, dates)
}
