package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/config"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/domain"
	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/ports/in"
)

type ScheduleController struct {
	useCase in.ScheduleResolverUseCase
	cfg     *config.Config
}

func NewScheduleController(useCase in.ScheduleResolverUseCase, cfg *config.Config) *ScheduleController {
	return &ScheduleController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *ScheduleController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.POST("/schedule/resolve", c.resolveSchedule)
		api.POST("/schedule/next-collection-day", c.nextCollectionDay)
	}
}

type ResolveScheduleRequest struct {
	Address string `json:"address" binding:"required"`
}

func (c *ScheduleController) resolveSchedule(ctx *gin.Context) {
	var req ResolveScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calendar, err := c.useCase.ResolveSchedule(ctx.Request.Context(), req.Address)
	if err != nil {
		respondResolveError(ctx, err)
		return
	}

	// Ближайший день вывоза может отсутствовать, это не ошибка резолва
	var nextDay *domain.CollectionDay
	if day, err := calendar.NextCollectionDay(time.Now()); err == nil {
		nextDay = day
	}

	ctx.JSON(http.StatusOK, gin.H{
		"address":           req.Address,
		"schedule":          calendar.Schedule(),
		"nextCollectionDay": nextDay,
	})
}

func (c *ScheduleController) nextCollectionDay(ctx *gin.Context) {
	var req ResolveScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calendar, err := c.useCase.ResolveSchedule(ctx.Request.Context(), req.Address)
	if err != nil {
		respondResolveError(ctx, err)
		return
	}

	day, err := calendar.NextCollectionDay(time.Now())
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"address":           req.Address,
		"nextCollectionDay": day,
	})
}

// respondResolveError переводит доменные ошибки резолва в HTTP-статусы
func respondResolveError(ctx *gin.Context, err error) {
	var addressErr *domain.AddressNotFoundError
	var accountErr *domain.AccountNotFoundError
	var requestErr *domain.RequestError
	var authErr *domain.AuthError

	switch {
	case errors.As(err, &addressErr), errors.As(err, &accountErr):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &requestErr), errors.As(err, &authErr):
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (c *ScheduleController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
				subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
