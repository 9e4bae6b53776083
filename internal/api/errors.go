package api

import (
	"errors"
	"fmt"
	"net/http"
)

// CodeUnknown используется, когда тело ответа с ошибкой не удалось разобрать.
const CodeUnknown = "UNKNOWN_ERROR"

var (
	// ErrConnectivity означает, что HTTP-ответ не был получен вовсе.
	ErrConnectivity = errors.New("connectivity error")
	// ErrDecode означает, что успешный ответ содержит некорректное тело.
	ErrDecode = errors.New("decode error")
)

// Error описывает ответ сервера с кодом состояния вне диапазона 2xx.
type Error struct {
	Status    int
	Code      string
	Message   string
	Timestamp string
}

func (e *Error) Error() string {
	return e.Message
}

// ConnectivityError оборачивает сетевую ошибку (DNS, TLS, обрыв соединения).
type ConnectivityError struct {
	Method string
	URL    string
	Err    error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s %s: %v (check the network connection and that the API scheme matches: http vs https)",
		e.Method, e.URL, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// Is позволяет сравнивать ошибку с ErrConnectivity через errors.Is.
func (e *ConnectivityError) Is(target error) bool { return target == ErrConnectivity }

// DecodeError описывает успешный ответ, тело которого не удалось разобрать или проверить.
type DecodeError struct {
	Status int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response (HTTP %d): %v", e.Status, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is позволяет сравнивать ошибку с ErrDecode через errors.Is.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// StatusCode возвращает HTTP-статус из ошибки API или 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsAuth сообщает об ошибке аутентификации (401/403).
func IsAuth(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsValidation сообщает об ошибке валидации или конфликта (4xx, кроме 401/403).
func IsValidation(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code < 500 && !IsAuth(err)
}

// IsServer сообщает об ошибке сервера (5xx).
func IsServer(err error) bool {
	return StatusCode(err) >= 500
}

// IsConnectivity сообщает о сетевой ошибке без HTTP-ответа.
func IsConnectivity(err error) bool {
	return errors.Is(err, ErrConnectivity)
}

// IsDecode сообщает о некорректном теле успешного ответа.
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}
