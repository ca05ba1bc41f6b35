package database

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/sang765/tmr-novel-tracking/internal/domain"
)

// DeliveryRepo implements domain.DeliveryRepo on the sqlite delivery log
type DeliveryRepo struct {
	log zerolog.Logger
	db  *DB
}

// NewDeliveryRepo creates a new delivery log repository
func NewDeliveryRepo(log zerolog.Logger, db *DB) domain.DeliveryRepo {
	return &DeliveryRepo{
		log: log.With().Str("repo", "delivery").Logger(),
		db:  db,
	}
}

// Delivered returns the chapters already announced for a novel, as a
// map of chapter number to webhook message id
func (r *DeliveryRepo) Delivered(ctx context.Context, novelID string) (map[float64]string, error) {
	queryBuilder := r.db.squirrel.
		Select("chapter_number", "message_id").
		From("delivery").
		Where(sq.Eq{"novel_id": novelID})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Delivered")

	rows, err := r.db.handler.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	delivered := map[float64]string{}
	for rows.Next() {
		var (
			number    float64
			messageID string
		)
		if err := rows.Scan(&number, &messageID); err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}

		delivered[number] = messageID
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}

	return delivered, nil
}

// Record inserts or updates a delivery entry
func (r *DeliveryRepo) Record(ctx context.Context, d domain.Delivery) error {
	queryBuilder := r.db.squirrel.
		Replace("delivery").
		Columns("novel_id", "chapter_number", "message_id", "sent_at").
		Values(d.NovelID, d.ChapterNumber, d.MessageID, d.SentAt)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Record")

	_, err = r.db.handler.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}
