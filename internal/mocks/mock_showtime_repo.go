package mocks

import (
	"context"

	"github.com/cinetick/booking-engine/internal/domain"
)

type MockShowtimeRepo struct {
	GetByIdFunc func(ctx context.Context, id int) (*domain.Showtime, error)
}

func (m *MockShowtimeRepo) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	return m.GetByIdFunc(ctx, id)
}
