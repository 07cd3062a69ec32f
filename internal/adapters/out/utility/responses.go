package utility

// Типизированные тела запросов и ответов эндпоинтов API предприятия.
// Отсутствующие и неожиданно типизированные поля разбираются на границе
// декодирования и превращаются в доменные ошибки

type addressFindRequest struct {
	Address string `json:"address"`
}

type addressFindResponse struct {
	Address []struct {
		PremCode string `json:"premCode"`
	} `json:"address"`
}

type accountFindRequest struct {
	PremCode string `json:"premCode"`
}

type accountFindResponse struct {
	Account struct {
		AccountNumber string `json:"accountNumber"`
	} `json:"account"`
}

// accountContext с nil-указателями сериализуется в null-плейсхолдеры,
// которых ждет эндпоинт swsummary
type accountContext struct {
	AccountNumber  string  `json:"accountNumber"`
	PersonID       *string `json:"personId"`
	CompanyCd      *string `json:"companyCd"`
	ServiceAddress *string `json:"serviceAddress"`
}

type swSummaryRequest struct {
	AccountContext accountContext `json:"accountContext"`
}

type swSummaryResponse struct {
	AccountContext struct {
		PersonID  string `json:"personId"`
		CompanyCd string `json:"companyCd"`
	} `json:"accountContext"`
	AccountSummaryType struct {
		SwServices []struct {
			Services []struct {
				Description    string `json:"description"`
				ServicePointID string `json:"servicePointId"`
			} `json:"services"`
		} `json:"swServices"`
	} `json:"accountSummaryType"`
}

type swCalendarAccountContext struct {
	AccountNumber string `json:"accountNumber"`
	PersonID      string `json:"personId"`
	CompanyCd     string `json:"companyCd"`
}

type swCalendarRequest struct {
	AccountContext swCalendarAccountContext `json:"accountContext"`
	ServicePoints  []string                 `json:"servicePoints"`
}

type swCalendarResponse struct {
	Calendar map[string][]string `json:"calendar"`
}
