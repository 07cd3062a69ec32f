package domain

import (
	"errors"
	"fmt"
)

// ErrNoUpcomingSchedule - в построенном календаре нет даты сегодня или позже
var ErrNoUpcomingSchedule = errors.New("no upcoming collection day in schedule")

// AddressNotFoundError - поиск premise-кода не нашел адрес
type AddressNotFoundError struct {
	Address string
}

func (e *AddressNotFoundError) Error() string {
	return fmt.Sprintf("Unable to recognize address: %s", e.Address)
}

// AccountNotFoundError - по premise-коду не нашелся номер лицевого счета
type AccountNotFoundError struct {
	PremiseCode string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("no account found for premise code: %s", e.PremiseCode)
}

// RequestError - не-2xx ответ или некорректное тело от API предприятия
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("utility api request failed: status %d: %s", e.StatusCode, e.Message)
}

// AuthError - не удалось получить гостевой токен
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("utility api auth failed: %s", e.Reason)
}
