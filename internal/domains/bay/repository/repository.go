package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"teesheet/infras/otel"
	"teesheet/infras/postgres"
	"teesheet/internal/domains/bay/model"
	gDto "teesheet/shared/dto"
	gRepo "teesheet/shared/repository"
)

type Bay interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Bay, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Bay, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	ListActive(ctx context.Context) ([]model.Bay, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Bay]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Bay {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Bay](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ListActive returns the active bay set ordered by name. Retired bays never
// appear in availability answers.
func (repo *repositoryImpl) ListActive(ctx context.Context) ([]model.Bay, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  model.FieldName,
		SortDir: gDto.SortDirAsc,
	}

	return repo.GetAll(ctx, params, filter) //nolint:wrapcheck
}
