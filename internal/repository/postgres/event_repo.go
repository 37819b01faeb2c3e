package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"communityevents/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, title, description, location, start_date_time, end_date_time,
		price, is_free, image_url, categories, tags, contact_email, contact_phone,
		requirements, max_registrations, is_published, organizer_id, created_at, updated_at`

// scanEvent scans one event row in eventColumns order.
func scanEvent(row interface{ Scan(dest ...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var phoneNull, reqNull sql.NullString
	var maxNull sql.NullInt64
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.StartDateTime, &e.EndDateTime,
		&e.Price, &e.IsFree, &e.ImageURL, pq.Array(&e.Categories), pq.Array(&e.Tags),
		&e.ContactEmail, &phoneNull, &reqNull, &maxNull, &e.IsPublished, &e.OrganizerID,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phoneNull.Valid {
		e.ContactPhone = &phoneNull.String
	}
	if reqNull.Valid {
		e.Requirements = &reqNull.String
	}
	if maxNull.Valid {
		max := int(maxNull.Int64)
		e.MaxRegistrations = &max
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, location, start_date_time, end_date_time,
			price, is_free, image_url, categories, tags, contact_email, contact_phone,
			requirements, max_registrations, is_published, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Location, e.StartDateTime, e.EndDateTime,
		e.Price, e.IsFree, e.ImageURL, pq.Array(e.Categories), pq.Array(e.Tags),
		e.ContactEmail, e.ContactPhone, e.Requirements, e.MaxRegistrations,
		e.IsPublished, e.OrganizerID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

const eventDetailsQuery = `
	SELECT e.id, e.title, e.description, e.location, e.start_date_time, e.end_date_time,
		e.price, e.is_free, e.image_url, e.categories, e.tags, e.contact_email, e.contact_phone,
		e.requirements, e.max_registrations, e.is_published, e.organizer_id, e.created_at, e.updated_at,
		u.id, u.first_name, u.last_name, u.organization,
		(SELECT COUNT(*) FROM registrations reg WHERE reg.event_id = e.id) AS registration_count
	FROM events e
	JOIN users u ON u.id = e.organizer_id
`

// scanEventDetails scans one eventDetailsQuery row and derives available spots.
func scanEventDetails(row interface{ Scan(dest ...any) error }) (*domain.EventDetails, error) {
	e := &domain.Event{}
	org := &domain.OrganizerSummary{}
	var phoneNull, reqNull sql.NullString
	var maxNull sql.NullInt64
	var count int
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.StartDateTime, &e.EndDateTime,
		&e.Price, &e.IsFree, &e.ImageURL, pq.Array(&e.Categories), pq.Array(&e.Tags),
		&e.ContactEmail, &phoneNull, &reqNull, &maxNull, &e.IsPublished, &e.OrganizerID,
		&e.CreatedAt, &e.UpdatedAt,
		&org.ID, &org.FirstName, &org.LastName, &org.Organization,
		&count,
	)
	if err != nil {
		return nil, err
	}
	if phoneNull.Valid {
		e.ContactPhone = &phoneNull.String
	}
	if reqNull.Valid {
		e.Requirements = &reqNull.String
	}
	details := &domain.EventDetails{
		Event:             e,
		Organizer:         org,
		RegistrationCount: count,
	}
	if maxNull.Valid {
		max := int(maxNull.Int64)
		e.MaxRegistrations = &max
		spots := max - count
		if spots < 0 {
			spots = 0
		}
		details.AvailableSpots = &spots
	}
	return details, nil
}

func (r *eventRepository) GetDetailsByID(ctx context.Context, id string) (*domain.EventDetails, error) {
	query := eventDetailsQuery + ` WHERE e.id = $1`
	details, err := scanEventDetails(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return details, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter) ([]*domain.EventDetails, error) {
	var conditions []string
	var args []any
	n := 1

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(e.title ILIKE '%%' || $%d || '%%' OR e.description ILIKE '%%' || $%d || '%%' OR e.location ILIKE '%%' || $%d || '%%')",
			n, n, n))
		args = append(args, filter.Query)
		n++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(e.categories)", n))
		args = append(args, filter.Category)
		n++
	}
	if filter.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(e.tags)", n))
		args = append(args, filter.Tag)
		n++
	}
	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("e.organizer_id = $%d", n))
		args = append(args, filter.OwnerID)
		n++
	}

	switch filter.TimeFrame {
	case domain.FilterUpcoming:
		conditions = append(conditions, "e.start_date_time >= NOW()")
	case domain.FilterPast:
		conditions = append(conditions, "e.end_date_time < NOW()")
	case domain.FilterFree:
		conditions = append(conditions, "e.is_free")
	case domain.FilterDraft:
		conditions = append(conditions, "NOT e.is_published")
	}

	query := eventDetailsQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.start_date_time ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.EventDetails, 0)
	for rows.Next() {
		details, err := scanEventDetails(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, details)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	query := `
		UPDATE events SET title = $1, description = $2, location = $3,
			start_date_time = $4, end_date_time = $5, price = $6, is_free = $7,
			image_url = $8, categories = $9, tags = $10, contact_email = $11,
			contact_phone = $12, requirements = $13, max_registrations = $14,
			is_published = $15, updated_at = NOW()
		WHERE id = $16
		RETURNING ` + eventColumns
	updated, err := scanEvent(r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Location, e.StartDateTime, e.EndDateTime,
		e.Price, e.IsFree, e.ImageURL, pq.Array(e.Categories), pq.Array(e.Tags),
		e.ContactEmail, e.ContactPhone, e.Requirements, e.MaxRegistrations,
		e.IsPublished, e.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
