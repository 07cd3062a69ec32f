package utility

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/suchimauz/solidwaste-schedule-resolver/internal/config"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/domain"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/ports/out"
)

type authGuestRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authGuestResponse struct {
	AccessToken string `json:"access_token"`
}

// TokenProvider - общий на процесс гостевой bearer-токен API предприятия.
// Получается лениво при первом обращении, дальше отдается из кэша.
// Внутри одного запуска не обновляется: протухший токен проявится как
// обычная ошибка запроса ниже по цепочке
type TokenProvider struct {
	client   *http.Client
	authURL  string
	username string
	password string
	logger   out.LoggerPort

	mu     sync.Mutex
	header string
}

func NewTokenProvider(cfg *config.Config, logger out.LoggerPort) *TokenProvider {
	return &TokenProvider{
		client:   &http.Client{Timeout: 10 * time.Second},
		authURL:  cfg.Utility.URL + authGuestPath,
		username: cfg.Utility.GuestUsername,
		password: cfg.Utility.GuestPassword,
		logger:   logger,
	}
}

// Header возвращает значение заголовка Authorization ("Bearer <token>")
func (p *TokenProvider) Header(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.header != "" {
		return p.header, nil
	}

	p.logger.Info("utility.auth.fetch", out.LogFields{})

	body, err := json.Marshal(authGuestRequest{
		Username: p.username,
		Password: p.password,
	})
	if err != nil {
		return "", &domain.AuthError{Reason: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.authURL, bytes.NewReader(body))
	if err != nil {
		return "", &domain.AuthError{Reason: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("utility.auth.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return "", &domain.AuthError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		p.logger.Error("utility.auth.fetch_failed", out.LogFields{
			"status": resp.StatusCode,
		})
		return "", &domain.AuthError{Reason: fmt.Sprintf("unexpected status code: %d", resp.StatusCode)}
	}

	var tokenResp authGuestResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		p.logger.Error("utility.auth.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return "", &domain.AuthError{Reason: err.Error()}
	}

	if tokenResp.AccessToken == "" {
		p.logger.Error("utility.auth.no_token", out.LogFields{})
		return "", &domain.AuthError{Reason: "response contains no access_token"}
	}

	p.header = "Bearer " + tokenResp.AccessToken

	p.logger.Debug("utility.auth.fetch_success", out.LogFields{})

	return p.header, nil
}
