package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"communityevents/internal/domain"
)

// uniqueViolation is the postgres error code for unique-constraint rejections.
const uniqueViolation = "23505"

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// Join runs the whole join as one transaction. The event row is locked first,
// so concurrent joins for the same event serialize and the capacity check
// holds at commit time. The unique index on (event_id, participant_id) stays
// the authority for duplicates; the in-transaction existence check only keeps
// a duplicate join from refreshing the participant profile.
func (r *registrationRepository) Join(ctx context.Context, eventID string, p *domain.Participant) (*domain.Registration, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin join tx: %w", err)
	}
	defer tx.Rollback()

	var maxRegs sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT max_registrations FROM events WHERE id = $1 FOR UPDATE`, eventID,
	).Scan(&maxRegs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event: %w", err)
	}

	// Duplicate check before the capacity check: a participant already on a
	// full event is told "already registered", not "capacity reached".
	var existingID sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT r.participant_id
		 FROM registrations r JOIN participants p ON p.id = r.participant_id
		 WHERE r.event_id = $1 AND p.email = $2`, eventID, p.Email,
	).Scan(&existingID)
	if err == nil {
		return nil, domain.ErrAlreadyRegistered
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check existing registration: %w", err)
	}

	if maxRegs.Valid {
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID,
		).Scan(&count); err != nil {
			return nil, fmt.Errorf("count registrations: %w", err)
		}
		if count >= int(maxRegs.Int64) {
			return nil, domain.ErrCapacityFull
		}
	}

	// Upsert the participant keyed on email; a repeat join for a new event
	// refreshes name and department.
	err = tx.QueryRowContext(ctx, `
		INSERT INTO participants (first_name, last_name, email, department, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE
			SET first_name = EXCLUDED.first_name,
			    last_name = EXCLUDED.last_name,
			    department = EXCLUDED.department,
			    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, p.FirstName, p.LastName, p.Email, p.Department).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert participant: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO participant_events (participant_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, p.ID, eventID)
	if err != nil {
		return nil, fmt.Errorf("attach participant: %w", err)
	}

	reg := &domain.Registration{
		EventID:       eventID,
		ParticipantID: p.ID,
		Status:        domain.RegistrationConfirmed,
		PaymentStatus: domain.PaymentUnpaid,
	}
	var metadata []byte
	err = tx.QueryRowContext(ctx, `
		INSERT INTO registrations (event_id, participant_id, status, payment_status, registered_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, metadata, registered_at, updated_at
	`, eventID, p.ID, reg.Status, reg.PaymentStatus).Scan(&reg.ID, &metadata, &reg.RegisteredAt, &reg.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	if err := unmarshalMetadata(metadata, reg); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit join tx: %w", err)
	}
	return reg, nil
}

// unmarshalMetadata decodes the jsonb metadata column into the registration.
func unmarshalMetadata(raw []byte, reg *domain.Registration) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &reg.Metadata); err != nil {
		return fmt.Errorf("decode registration metadata: %w", err)
	}
	return nil
}

// Leave removes the attachment and the registration record together; the
// participant record itself survives.
func (r *registrationRepository) Leave(ctx context.Context, eventID, email string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin leave tx: %w", err)
	}
	defer tx.Rollback()

	var participantID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM participants WHERE email = $1`, email,
	).Scan(&participantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get participant: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM participant_events WHERE participant_id = $1 AND event_id = $2`,
		participantID, eventID)
	if err != nil {
		return fmt.Errorf("detach participant: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotRegistered
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM registrations WHERE participant_id = $1 AND event_id = $2`,
		participantID, eventID); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit leave tx: %w", err)
	}
	return nil
}

func (r *registrationRepository) GetByEventAndParticipant(ctx context.Context, eventID, participantID string) (*domain.Registration, error) {
	query := `
		SELECT id, event_id, participant_id, status, payment_status, metadata, registered_at, updated_at
		FROM registrations
		WHERE event_id = $1 AND participant_id = $2
	`
	reg := &domain.Registration{}
	var metadata []byte
	err := r.DB.QueryRowContext(ctx, query, eventID, participantID).
		Scan(&reg.ID, &reg.EventID, &reg.ParticipantID, &reg.Status, &reg.PaymentStatus, &metadata, &reg.RegisteredAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := unmarshalMetadata(metadata, reg); err != nil {
		return nil, err
	}
	return reg, nil
}
