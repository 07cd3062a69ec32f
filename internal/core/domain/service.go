package domain

type Service string

const (
	ServiceGarbage   Service = "GARBAGE"
	ServiceRecycle   Service = "RECYCLE"
	ServiceYardWaste Service = "YARD_WASTE"
)

// serviceLabels - статическая таблица соответствия описаний сервисов
// из API коммунального предприятия нашим типам отходов
var serviceLabels = map[string]Service{
	"Garbage":         ServiceGarbage,
	"Recycle":         ServiceRecycle,
	"Food/Yard Waste": ServiceYardWaste,
}

// ServiceFromLabel возвращает тип отходов по описанию из API.
// Неизвестные описания не считаются ошибкой, ok = false
func ServiceFromLabel(label string) (Service, bool) {
	service, ok := serviceLabels[label]
	return service, ok
}
