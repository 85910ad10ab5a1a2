// README: Quote history store backed by PostgreSQL.
package pricing

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"taxiwatch/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS quote_history (
            id              BIGSERIAL PRIMARY KEY,
            conversation_id BIGINT NOT NULL,
            search_id       TEXT NOT NULL,
            origin_lon      DOUBLE PRECISION NOT NULL,
            origin_lat      DOUBLE PRECISION NOT NULL,
            destination_lon DOUBLE PRECISION NOT NULL,
            destination_lat DOUBLE PRECISION NOT NULL,
            price           DOUBLE PRECISION NOT NULL,
            min_price       DOUBLE PRECISION NOT NULL,
            class_name      TEXT NOT NULL,
            notified        BOOLEAN NOT NULL,
            fetched_at      TIMESTAMPTZ NOT NULL
        )`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
        CREATE INDEX IF NOT EXISTS quote_history_search_idx ON quote_history (search_id, fetched_at)`)
	return err
}

func (s *Store) Append(ctx context.Context, r *QuoteRecord) error {
	row := s.db.QueryRow(ctx, `
        INSERT INTO quote_history (
            conversation_id, search_id,
            origin_lon, origin_lat, destination_lon, destination_lat,
            price, min_price, class_name, notified, fetched_at
        ) VALUES (
            $1, $2,
            $3, $4, $5, $6,
            $7, $8, $9, $10, $11
        ) RETURNING id`,
		int64(r.ConversationID), r.SearchID,
		r.Origin.Lon, r.Origin.Lat, r.Destination.Lon, r.Destination.Lat,
		r.Price, r.MinPrice, r.ClassName, r.Notified, r.FetchedAt,
	)
	return row.Scan(&r.ID)
}

func (s *Store) ListBySearch(ctx context.Context, searchID string) ([]QuoteRecord, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, conversation_id, search_id,
               origin_lon, origin_lat, destination_lon, destination_lat,
               price, min_price, class_name, notified, fetched_at
        FROM quote_history
        WHERE search_id = $1
        ORDER BY fetched_at, id`, searchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QuoteRecord
	for rows.Next() {
		var r QuoteRecord
		var conv int64
		if err := rows.Scan(
			&r.ID, &conv, &r.SearchID,
			&r.Origin.Lon, &r.Origin.Lat, &r.Destination.Lon, &r.Destination.Lat,
			&r.Price, &r.MinPrice, &r.ClassName, &r.Notified, &r.FetchedAt,
		); err != nil {
			return nil, err
		}
		r.ConversationID = types.ConversationID(conv)
		out = append(out, r)
	}
	return out, rows.Err()
}
