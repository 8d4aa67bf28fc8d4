package pje

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimitStatus é o estado de cota conhecido para um tribunal.
type RateLimitStatus struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimits acompanha a cota divulgada pelos headers x-ratelimit-* de cada
// tribunal. O estado é consultivo: registra o que o upstream informou na
// última resposta e expira em ResetAt. Uma instância é criada pelo chamador
// e injetada em cada cliente, podendo ser compartilhada entre jobs.
type RateLimits struct {
	mu     sync.Mutex
	states map[string]RateLimitStatus
}

func NewRateLimits() *RateLimits {
	return &RateLimits{states: make(map[string]RateLimitStatus)}
}

// Status retorna o estado atual para o tribunal. Estado expirado é
// descartado e volta como zero.
func (r *RateLimits) Status(tribunal string) RateLimitStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[tribunal]
	if !ok {
		return RateLimitStatus{}
	}
	if !state.ResetAt.IsZero() && !state.ResetAt.After(time.Now()) {
		delete(r.states, tribunal)
		return RateLimitStatus{}
	}
	return state
}

// Exhausted informa se a cota local está zerada com reset ainda no futuro.
func (r *RateLimits) Exhausted(tribunal string) (bool, time.Time) {
	state := r.Status(tribunal)
	if state.Limit > 0 && state.Remaining == 0 && state.ResetAt.After(time.Now()) {
		return true, state.ResetAt
	}
	return false, time.Time{}
}

// UpdateFromHeaders registra a cota divulgada em uma resposta.
func (r *RateLimits) UpdateFromHeaders(tribunal string, h http.Header) {
	limit := headerInt(h, "x-ratelimit-limit")
	remaining := headerInt(h, "x-ratelimit-remaining")
	if limit == 0 && remaining == 0 && h.Get("x-ratelimit-limit") == "" {
		return
	}

	resetAt := time.Now().Add(time.Minute)
	if raw := h.Get("x-ratelimit-reset"); raw != "" {
		if epoch, err := strconv.ParseInt(raw, 10, 64); err == nil {
			resetAt = time.Unix(epoch, 0)
		}
	}

	r.mu.Lock()
	r.states[tribunal] = RateLimitStatus{Limit: limit, Remaining: remaining, ResetAt: resetAt}
	r.mu.Unlock()
}

func headerInt(h http.Header, key string) int {
	v, err := strconv.Atoi(h.Get(key))
	if err != nil {
		return 0
	}
	return v
}
