package out

import (
	"context"

	"github.com/suchimauz/solidwaste-schedule-resolver/internal/core/domain"
)

// ServicePointsResult - результат swsummary-запроса: точки обслуживания
// плюс идентификаторы контекста счета для запроса календаря
type ServicePointsResult struct {
	Points      domain.ServicePointMap
	PersonID    string
	CompanyCode string
}

type UtilityPort interface {
	// Поиск premise-кода по строке адреса
	FindPremise(ctx context.Context, address string) (string, error)

	// Поиск номера лицевого счета по premise-коду
	FindAccount(ctx context.Context, premCode string) (string, error)

	// Поиск точек обслуживания по номеру счета (требует токен)
	FindServicePoints(ctx context.Context, accountNumber string) (*ServicePointsResult, error)

	// Получение сырых дат вывоза по точкам обслуживания (требует токен).
	// Ключ результата - идентификатор точки, значение - даты MM/DD/YYYY
	GetCollectionDates(ctx context.Context, account domain.Account, servicePointIDs []string) (map[string][]string, error)
}
