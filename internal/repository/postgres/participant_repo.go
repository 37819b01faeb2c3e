package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"communityevents/internal/domain"
)

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{
		DB: db,
	}
}

const participantQuery = `
	SELECT p.id, p.first_name, p.last_name, p.email, p.department, p.created_at, p.updated_at,
		COALESCE(array_agg(pe.event_id::text) FILTER (WHERE pe.event_id IS NOT NULL), '{}') AS joined_events
	FROM participants p
	LEFT JOIN participant_events pe ON pe.participant_id = p.id
`

func scanParticipant(row interface{ Scan(dest ...any) error }) (*domain.Participant, error) {
	p := &domain.Participant{}
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Department,
		&p.CreatedAt, &p.UpdatedAt, pq.Array(&p.JoinedEventIDs),
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) GetByEmail(ctx context.Context, email string) (*domain.Participant, error) {
	query := participantQuery + `
	WHERE p.email = $1
	GROUP BY p.id, p.first_name, p.last_name, p.email, p.department, p.created_at, p.updated_at`
	p, err := scanParticipant(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	query := participantQuery + `
	WHERE p.id IN (SELECT participant_id FROM participant_events WHERE event_id = $1)
	GROUP BY p.id, p.first_name, p.last_name, p.email, p.department, p.created_at, p.updated_at
	ORDER BY p.created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
