package pje

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound mapeia respostas 404 do upstream.
var ErrNotFound = errors.New("registro não encontrado no tribunal")

// ValidationError indica parâmetros rejeitados localmente ou pelo upstream
// (HTTP 422). Não deve ser re-tentado.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validação falhou: %s", e.Message)
}

// RateLimitError indica cota local esgotada ou um 429 que persistiu após a
// re-tentativa única.
type RateLimitError struct {
	Tribunal string
	ResetAt  time.Time
}

func (e *RateLimitError) Error() string {
	wait := time.Until(e.ResetAt).Round(time.Second)
	if wait > 0 {
		return fmt.Sprintf("rate limit atingido para %s, retry após %s", e.Tribunal, wait)
	}
	return fmt.Sprintf("rate limit atingido para %s", e.Tribunal)
}
