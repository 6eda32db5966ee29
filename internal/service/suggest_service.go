package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Gopal274/Ssdn/internal/infra"
)

// SuggestService fronts the category suggestion sidecar. The sidecar is an
// opaque text-in/text-out oracle; its availability never affects a ledger
// operation, so the only coupling is the circuit breaker that keeps dead
// sidecar calls from eating request goroutines.
type SuggestService interface {
	Suggest(ctx context.Context, productName string) (string, error)
}

type suggestService struct {
	client  *infra.SuggestClient
	breaker *infra.Breaker
}

func NewSuggestService(client *infra.SuggestClient, breaker *infra.Breaker) SuggestService {
	return &suggestService{client: client, breaker: breaker}
}

func (s *suggestService) Suggest(ctx context.Context, productName string) (string, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return "", newValidationError(map[string]string{"product_name": "required"})
	}

	var category string
	err := s.breaker.Do(func() error {
		var callErr error
		category, callErr = s.client.Suggest(ctx, productName)
		return callErr
	})
	if errors.Is(err, infra.ErrBreakerOpen) {
		return "", ErrSuggestUnavailable
	}
	if err != nil {
		return "", err
	}
	return category, nil
}
