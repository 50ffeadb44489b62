package repo

import (
	"context"
	"database/sql"
	"time"
)

type Engineer struct {
	ID          int       `json:"id"`
	Login       string    `json:"login"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"` // engineer, senior_engineer, chief_engineer
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// OverrideAudit is the persisted copy of an applied override. The
// in-memory history in the safety service covers one process; this
// table is the durable record.
type OverrideAudit struct {
	ID           int       `json:"id"`
	LogID        string    `json:"log_id"`
	ViolationID  string    `json:"violation_id"`
	Parameter    string    `json:"parameter"`
	Reason       string    `json:"reason"`
	ApproverID   string    `json:"approver_id"`
	ApproverName string    `json:"approver_name"`
	Level        string    `json:"level"`
	ReferenceDoc string    `json:"reference_doc"`
	CreatedAt    time.Time `json:"created_at"`
}

// OverrideTicket is a pending override request waiting for a chief
// engineer decision through the approval bot.
type OverrideTicket struct {
	ID        int       `json:"id"`
	LogID     string    `json:"log_id"`
	Parameter string    `json:"parameter"`
	Reason    string    `json:"reason"`
	Requester string    `json:"requester"`
	Status    string    `json:"status"` // pending, approved, rejected
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	CreateEngineer(ctx context.Context, login, email, password, role string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, string, error)
	GetEngineerByID(ctx context.Context, id int) (Engineer, error)
	UpdateEngineer(ctx context.Context, id int, name, description string) error

	SaveOverrideAudit(ctx context.Context, a OverrideAudit) (int, error)
	ListOverrideAudit(ctx context.Context, logID string) ([]OverrideAudit, error)

	CreateTicket(ctx context.Context, t OverrideTicket) (int, error)
	PendingTickets(ctx context.Context) ([]OverrideTicket, error)
	ResolveTicket(ctx context.Context, id int, status string) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateEngineer(ctx context.Context, login, email, password, role string) (int, error) {
	if role == "" {
		role = "engineer"
	}
	var id int
	query := "INSERT INTO engineers (login, email, password, role) VALUES ($1, $2, $3, $4) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password, role).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, string, error) {
	var id int
	var hash, role string

	query := "SELECT id, password, role FROM engineers WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash, &role)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", "", nil
		}
		return 0, "", "", err
	}
	return id, hash, role, nil
}

func (r *PostgresRepository) GetEngineerByID(ctx context.Context, id int) (Engineer, error) {
	var e Engineer
	query := "SELECT id, login, email, COALESCE(name,''), role, COALESCE(description,''), created_at FROM engineers WHERE id=$1"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Login, &e.Email, &e.Name, &e.Role, &e.Description, &e.CreatedAt)
	return e, err
}

func (r *PostgresRepository) UpdateEngineer(ctx context.Context, id int, name, description string) error {
	query := "UPDATE engineers SET name=$2, description=$3 WHERE id=$1"
	_, err := r.db.ExecContext(ctx, query, id, name, description)
	return err
}

func (r *PostgresRepository) SaveOverrideAudit(ctx context.Context, a OverrideAudit) (int, error) {
	var id int
	query := `INSERT INTO override_audit
		(log_id, violation_id, parameter, reason, approver_id, approver_name, level, reference_doc, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		a.LogID, a.ViolationID, a.Parameter, a.Reason,
		a.ApproverID, a.ApproverName, a.Level, a.ReferenceDoc, a.CreatedAt).Scan(&id)
	return id, err
}

func (r *PostgresRepository) ListOverrideAudit(ctx context.Context, logID string) ([]OverrideAudit, error) {
	query := `SELECT id, log_id, violation_id, parameter, reason, approver_id, approver_name, level, COALESCE(reference_doc,''), created_at
		FROM override_audit WHERE log_id=$1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, logID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OverrideAudit
	for rows.Next() {
		var a OverrideAudit
		if err := rows.Scan(&a.ID, &a.LogID, &a.ViolationID, &a.Parameter, &a.Reason,
			&a.ApproverID, &a.ApproverName, &a.Level, &a.ReferenceDoc, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CreateTicket(ctx context.Context, t OverrideTicket) (int, error) {
	var id int
	query := `INSERT INTO override_tickets (log_id, parameter, reason, requester, status, created_at)
		VALUES ($1, $2, $3, $4, 'pending', $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, t.LogID, t.Parameter, t.Reason, t.Requester, time.Now()).Scan(&id)
	return id, err
}

func (r *PostgresRepository) PendingTickets(ctx context.Context) ([]OverrideTicket, error) {
	query := `SELECT id, log_id, parameter, reason, requester, status, created_at
		FROM override_tickets WHERE status='pending' ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OverrideTicket
	for rows.Next() {
		var t OverrideTicket
		if err := rows.Scan(&t.ID, &t.LogID, &t.Parameter, &t.Reason, &t.Requester, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ResolveTicket(ctx context.Context, id int, status string) error {
	query := "UPDATE override_tickets SET status=$2 WHERE id=$1 AND status='pending'"
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
