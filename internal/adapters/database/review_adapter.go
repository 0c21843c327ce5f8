package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/storeatlas/store-directory/backend/pkg/errors"
)

// ReviewAdapter implements review persistence in Postgres.
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter.
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a review record.
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	query, args, err := a.db.Insert("reviews").Rows(goqu.Record{
		"id":         review.ID,
		"author_id":  review.AuthorID,
		"store_id":   review.StoreID,
		"text":       review.Text,
		"rating":     review.Rating,
		"created_at": review.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build review insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewUnavailableError("failed to create review", err)
	}

	return nil
}

// ListByStore retrieves all reviews for a store, newest first.
func (a *ReviewAdapter) ListByStore(ctx context.Context, storeID string) ([]*entities.Review, error) {
	query, args, err := a.db.From("reviews").
		Select("id", "author_id", "store_id", "text", "rating", "created_at").
		Where(goqu.Ex{"store_id": storeID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.Review{}
	for rows.Next() {
		review := &entities.Review{}
		err := rows.Scan(
			&review.ID,
			&review.AuthorID,
			&review.StoreID,
			&review.Text,
			&review.Rating,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("error iterating reviews", err)
	}

	return reviews, nil
}
