package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/config"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/domain"
)

type stubUseCase struct {
	calendar *domain.CollectionCalendar
	err      error
}

func (s *stubUseCase) ResolveSchedule(ctx context.Context, address string) (*domain.CollectionCalendar, error) {
	return s.calendar, s.err
}

func (s *stubUseCase) InvalidateScheduleCache(ctx context.Context, address string) {}

func (s *stubUseCase) InvalidateAllSchedulesCache(ctx context.Context) {}

func newTestRouter(useCase *stubUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Auth.BasicClients = []config.ConfigBasicClient{
		{Username: "client", Password: "secret"},
	}

	router := gin.New()
	NewScheduleController(useCase, cfg).RegisterRoutes(router)
	return router
}

func doRequest(router *gin.Engine, path, body string, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.SetBasicAuth("client", "secret")
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestResolveScheduleRoute(t *testing.T) {
	calendar := domain.NewCollectionCalendar(time.UTC)
	calendar.Fold("2999-03-01", "Garbage")

	router := newTestRouter(&stubUseCase{calendar: calendar})

	recorder := doRequest(router, "/api/v1/schedule/resolve", `{"address":"3628 S 35th St"}`, true)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"2999-03-01"`)
	assert.Contains(t, recorder.Body.String(), `"GARBAGE"`)
}

func TestResolveScheduleRouteRequiresAuth(t *testing.T) {
	router := newTestRouter(&stubUseCase{})

	recorder := doRequest(router, "/api/v1/schedule/resolve", `{"address":"3628 S 35th St"}`, false)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestResolveScheduleRouteMissingAddress(t *testing.T) {
	router := newTestRouter(&stubUseCase{})

	recorder := doRequest(router, "/api/v1/schedule/resolve", `{}`, true)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestResolveScheduleRouteAddressNotFound(t *testing.T) {
	router := newTestRouter(&stubUseCase{
		err: &domain.AddressNotFoundError{Address: "123 Fake St"},
	})

	recorder := doRequest(router, "/api/v1/schedule/resolve", `{"address":"123 Fake St"}`, true)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "123 Fake St")
}

func TestResolveScheduleRouteUpstreamFailure(t *testing.T) {
	router := newTestRouter(&stubUseCase{
		err: &domain.RequestError{StatusCode: http.StatusInternalServerError, Message: "Internal Server Error"},
	})

	recorder := doRequest(router, "/api/v1/schedule/resolve", `{"address":"3628 S 35th St"}`, true)

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestNextCollectionDayRouteNoUpcoming(t *testing.T) {
	router := newTestRouter(&stubUseCase{
		calendar: domain.NewCollectionCalendar(time.UTC),
	})

	recorder := doRequest(router, "/api/v1/schedule/next-collection-day", `{"address":"3628 S 35th St"}`, true)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
