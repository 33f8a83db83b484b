package service

import (
	"context"

	"github.com/nandanugg/geopresence/module/presence/internal/repository/database"
)

type VariableService struct {
	repo database.VariableRepository
}

func NewVariableService(repo database.VariableRepository) *VariableService {
	return &VariableService{repo: repo}
}

func (s *VariableService) Get(ctx context.Context, scope, key string) (any, bool, error) {
	return s.repo.Get(ctx, scope, key)
}

func (s *VariableService) Set(ctx context.Context, scope, key string, value any) error {
	return s.repo.Set(ctx, scope, key, value)
}

func (s *VariableService) Delete(ctx context.Context, scope, key string) error {
	return s.repo.Delete(ctx, scope, key)
}
