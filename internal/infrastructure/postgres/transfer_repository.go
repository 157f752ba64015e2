package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, transfer_number, product_id, from_branch_id, to_branch_id,
		quantity, unit_code, quantity_base, status, requested_by, requested_at,
		approved_by, approved_at, sent_by, sent_at, received_by, received_at,
		reason, notes, created_at, updated_at`

// Create persiste un traslado nuevo. ErrConflict si el consecutivo ya existe.
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.TransferNumber, transfer.ProductID,
		transfer.FromBranchID, transfer.ToBranchID,
		transfer.Quantity, transfer.UnitCode, transfer.QuantityBase,
		transfer.Status, transfer.RequestedBy, transfer.RequestedAt,
		nullable(transfer.ApprovedBy), transfer.ApprovedAt,
		nullable(transfer.SentBy), transfer.SentAt,
		nullable(transfer.ReceivedBy), transfer.ReceivedAt,
		nullable(transfer.Reason), transfer.Notes,
		transfer.CreatedAt, transfer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traslado por ID. nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	t, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// GetForUpdate obtiene el traslado con la fila bloqueada (SELECT FOR UPDATE);
// serializa transiciones concurrentes sobre el mismo traslado.
func (r *TransferRepo) GetForUpdate(id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1 FOR UPDATE`
	t, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer for update: %w", err)
	}
	return t, nil
}

// Update persiste el estado actual del traslado.
func (r *TransferRepo) Update(transfer *entity.Transfer) error {
	query := `
		UPDATE transfers SET
			status = $2, approved_by = $3, approved_at = $4,
			sent_by = $5, sent_at = $6, received_by = $7, received_at = $8,
			notes = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.Status,
		nullable(transfer.ApprovedBy), transfer.ApprovedAt,
		nullable(transfer.SentBy), transfer.SentAt,
		nullable(transfer.ReceivedBy), transfer.ReceivedAt,
		transfer.Notes, transfer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista traslados, más reciente primero; status vacío = todos.
func (r *TransferRepo) List(status string, limit, offset int) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY requested_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	return collectTransfers(rows)
}

// FindPendingTooLong devuelve traslados no terminales solicitados antes de la fecha dada.
func (r *TransferRepo) FindPendingTooLong(olderThan time.Time) ([]*entity.Transfer, error) {
	query := `
		SELECT ` + transferColumns + ` FROM transfers
		WHERE status IN ('PENDING', 'IN_TRANSIT') AND requested_at < $1
		ORDER BY requested_at ASC`
	rows, err := r.q.Query(context.Background(), query, olderThan)
	if err != nil {
		return nil, fmt.Errorf("find stale transfers: %w", err)
	}
	defer rows.Close()
	return collectTransfers(rows)
}

// NextTransferNumber genera el consecutivo legible del día (TR-AAAAMMDD-####)
// con una fila contadora por fecha e incremento atómico: sin contador global
// mutable en memoria y sin carreras entre procesos.
func (r *TransferRepo) NextTransferNumber(day time.Time) (string, error) {
	dateKey := day.Format("20060102")
	query := `
		INSERT INTO transfer_sequences (date_key, last_value)
		VALUES ($1, 1)
		ON CONFLICT (date_key)
		DO UPDATE SET last_value = transfer_sequences.last_value + 1
		RETURNING last_value`
	var seq int
	if err := r.q.QueryRow(context.Background(), query, dateKey).Scan(&seq); err != nil {
		return "", fmt.Errorf("next transfer number: %w", err)
	}
	return fmt.Sprintf("TR-%s-%04d", dateKey, seq), nil
}

func collectTransfers(rows pgx.Rows) ([]*entity.Transfer, error) {
	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	var approvedBy, sentBy, receivedBy, reason *string
	err := row.Scan(
		&t.ID, &t.TransferNumber, &t.ProductID, &t.FromBranchID, &t.ToBranchID,
		&t.Quantity, &t.UnitCode, &t.QuantityBase, &t.Status,
		&t.RequestedBy, &t.RequestedAt,
		&approvedBy, &t.ApprovedAt, &sentBy, &t.SentAt,
		&receivedBy, &t.ReceivedAt, &reason, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.ApprovedBy = deref(approvedBy)
	t.SentBy = deref(sentBy)
	t.ReceivedBy = deref(receivedBy)
	t.Reason = deref(reason)
	return &t, nil
}
