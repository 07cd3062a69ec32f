package utility

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/suchimauz/solidwaste-schedule-resolver/internal/config"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/domain"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/ports/out"
)

const (
	authGuestPath   = "/auth/guest"
	addressFindPath = "/addressFind"
	accountFindPath = "/accountFind"
	swSummaryPath   = "/swsummary"
	swCalendarPath  = "/solidwastecalendar"
)

type UtilityAdapter struct {
	client  *http.Client
	baseURL string
	token   *TokenProvider
	logger  out.LoggerPort
}

func NewUtilityAdapter(cfg *config.Config, token *TokenProvider, logger out.LoggerPort) *UtilityAdapter {
	return &UtilityAdapter{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: cfg.Utility.URL,
		token:   token,
		logger:  logger,
	}
}

// send выполняет одиночный POST с JSON-телом и декодирует ответ в target.
// Дополнительные заголовки накладываются поверх стандартных.
// Не-2xx статус и некорректный JSON - RequestError, повторов нет
func (a *UtilityAdapter) send(ctx context.Context, url string, payload interface{}, headers map[string]string, target interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &domain.RequestError{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &domain.RequestError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return &domain.RequestError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(resp.Body)
		message := strings.TrimSpace(string(respBody))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &domain.RequestError{StatusCode: resp.StatusCode, Message: message}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &domain.RequestError{StatusCode: resp.StatusCode, Message: "malformed response body: " + err.Error()}
	}

	return nil
}

func (a *UtilityAdapter) FindPremise(ctx context.Context, address string) (string, error) {
	a.logger.Info("utility.premise.fetch", out.LogFields{
		"address": address,
	})

	var res addressFindResponse
	if err := a.send(ctx, a.baseURL+addressFindPath, addressFindRequest{Address: address}, nil, &res); err != nil {
		a.logger.Error("utility.premise.fetch_failed", out.LogFields{
			"address": address,
			"error":   err.Error(),
		})
		return "", err
	}

	if len(res.Address) == 0 {
		a.logger.Warn("utility.premise.not_found", out.LogFields{
			"address": address,
		})
		return "", &domain.AddressNotFoundError{Address: address}
	}

	return res.Address[0].PremCode, nil
}

func (a *UtilityAdapter) FindAccount(ctx context.Context, premCode string) (string, error) {
	a.logger.Info("utility.account.fetch", out.LogFields{
		"premCode": premCode,
	})

	var res accountFindResponse
	if err := a.send(ctx, a.baseURL+accountFindPath, accountFindRequest{PremCode: premCode}, nil, &res); err != nil {
		a.logger.Error("utility.account.fetch_failed", out.LogFields{
			"premCode": premCode,
			"error":    err.Error(),
		})
		return "", err
	}

	if res.Account.AccountNumber == "" {
		a.logger.Warn("utility.account.not_found", out.LogFields{
			"premCode": premCode,
		})
		return "", &domain.AccountNotFoundError{PremiseCode: premCode}
	}

	return res.Account.AccountNumber, nil
}

func (a *UtilityAdapter) FindServicePoints(ctx context.Context, accountNumber string) (*out.ServicePointsResult, error) {
	a.logger.Info("utility.swsummary.fetch", out.LogFields{
		"accountNumber": accountNumber,
	})

	header, err := a.token.Header(ctx)
	if err != nil {
		return nil, err
	}

	payload := swSummaryRequest{
		AccountContext: accountContext{AccountNumber: accountNumber},
	}

	var res swSummaryResponse
	if err := a.send(ctx, a.baseURL+swSummaryPath, payload, map[string]string{"Authorization": header}, &res); err != nil {
		a.logger.Error("utility.swsummary.fetch_failed", out.LogFields{
			"accountNumber": accountNumber,
			"error":         err.Error(),
		})
		return nil, err
	}

	if len(res.AccountSummaryType.SwServices) == 0 {
		a.logger.Error("utility.swsummary.no_services", out.LogFields{
			"accountNumber": accountNumber,
		})
		return nil, &domain.RequestError{
			StatusCode: http.StatusOK,
			Message:    "swsummary response contains no solid waste services",
		}
	}

	points := make(domain.ServicePointMap)
	for _, service := range res.AccountSummaryType.SwServices[0].Services {
		points[service.Description] = service.ServicePointID
	}

	a.logger.Debug("utility.swsummary.fetch_success", out.LogFields{
		"accountNumber":      accountNumber,
		"servicePointsCount": len(points),
	})

	return &out.ServicePointsResult{
		Points:      points,
		PersonID:    res.AccountContext.PersonID,
		CompanyCode: res.AccountContext.CompanyCd,
	}, nil
}

func (a *UtilityAdapter) GetCollectionDates(ctx context.Context, account domain.Account, servicePointIDs []string) (map[string][]string, error) {
	a.logger.Info("utility.calendar.fetch", out.LogFields{
		"accountNumber":      account.AccountNumber,
		"servicePointsCount": len(servicePointIDs),
	})

	header, err := a.token.Header(ctx)
	if err != nil {
		return nil, err
	}

	payload := swCalendarRequest{
		AccountContext: swCalendarAccountContext{
			AccountNumber: account.AccountNumber,
			PersonID:      account.PersonID,
			CompanyCd:     account.CompanyCode,
		},
		ServicePoints: servicePointIDs,
	}

	var res swCalendarResponse
	if err := a.send(ctx, a.baseURL+swCalendarPath, payload, map[string]string{"Authorization": header}, &res); err != nil {
		a.logger.Error("utility.calendar.fetch_failed", out.LogFields{
			"accountNumber": account.AccountNumber,
			"error":         err.Error(),
		})
		return nil, err
	}

	return res.Calendar, nil
}
