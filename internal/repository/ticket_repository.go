package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mintickets/helpdesk/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	// DeleteCascade removes the ticket row and every attachment row owned by
	// it inside one transaction. Either all rows go or none do.
	DeleteCascade(ctx context.Context, id int64) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, fecha_creacion, fecha_finalizacion, tema, estado,
        tercero_nombre, tercero_email, especialista_nombre, especialista_email,
        descripcion_caso, solucion_caso,
        calificacion_tiempo_respuesta, calificacion_actitud, calificacion_respuesta,
        codigo_seguridad`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (fecha_creacion, tema, estado, tercero_nombre, tercero_email,
            especialista_nombre, especialista_email, descripcion_caso, solucion_caso, codigo_seguridad)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		ticket.CreatedAt,
		ticket.Subject,
		ticket.Status,
		ticket.RequesterName,
		ticket.RequesterEmail,
		ticket.SpecialistName,
		ticket.SpecialistEmail,
		ticket.Description,
		ticket.Solution,
		ticket.SecurityCode,
	).Scan(&ticket.ID)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET fecha_finalizacion=$1, tema=$2, estado=$3, tercero_nombre=$4,
            tercero_email=$5, especialista_nombre=$6, especialista_email=$7,
            descripcion_caso=$8, solucion_caso=$9,
            calificacion_tiempo_respuesta=$10, calificacion_actitud=$11, calificacion_respuesta=$12,
            codigo_seguridad=$13
        WHERE id=$14`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.FinalizedAt,
		ticket.Subject,
		ticket.Status,
		ticket.RequesterName,
		ticket.RequesterEmail,
		ticket.SpecialistName,
		ticket.SpecialistEmail,
		ticket.Description,
		ticket.Solution,
		ticket.ResponseTimeScore,
		ticket.AttitudeScore,
		ticket.ResponseScore,
		ticket.SecurityCode,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(ticketFields(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY fecha_creacion DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(ticketFields(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM description_attachments WHERE ticket_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM response_attachments WHERE ticket_id=$1`, id); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func ticketFields(t *domain.Ticket) []any {
	return []any{
		&t.ID,
		&t.CreatedAt,
		&t.FinalizedAt,
		&t.Subject,
		&t.Status,
		&t.RequesterName,
		&t.RequesterEmail,
		&t.SpecialistName,
		&t.SpecialistEmail,
		&t.Description,
		&t.Solution,
		&t.ResponseTimeScore,
		&t.AttitudeScore,
		&t.ResponseScore,
		&t.SecurityCode,
	}
}
