package domain

// Account - идентичность лицевого счета, разрешенная из адреса.
// После завершения резолва не изменяется
type Account struct {
	AccountNumber string `json:"accountNumber"`
	PremiseCode   string `json:"premCode"`
	PersonID      string `json:"personId"`
	CompanyCode   string `json:"companyCd"`
}

// ServicePointMap - соответствие описания сервиса ("Garbage", "Recycle", ...)
// идентификатору точки обслуживания для запроса календаря.
// Ключи не обязаны совпадать с известными описаниями: неизвестные
// проходят дальше, но при сборке календаря не дают Service
type ServicePointMap map[string]string

// ServicePointIDs возвращает все идентификаторы точек обслуживания
func (m ServicePointMap) ServicePointIDs() []string {
	ids := make([]string, 0, len(m))
	for _, id := range m {
		ids = append(ids, id)
	}
	return ids
}
