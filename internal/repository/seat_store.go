package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/seatmate/seatmate/internal/model"
)

// Store is the MySQL-backed SeatStore.  Each gender partition lives in
// its own table (male_seats, female_seats) with the seat number as the
// primary key, so a lost claim race surfaces as a duplicate-key error on
// insert rather than as a lost update.  All timestamps are stored in UTC.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store bound to the given database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// seatTable maps a partition to its table name.  Gender values are
// validated at the API boundary; an unknown value here is a programming
// error and maps to the male table never being reached in practice.
func seatTable(g model.Gender) string {
	if g == model.Female {
		return "female_seats"
	}
	return "male_seats"
}

// ListAssignments returns all assignments in the partition ordered by
// seat number.  An empty partition yields an empty, non-nil slice.
func (s *Store) ListAssignments(ctx context.Context, g model.Gender) ([]model.SeatAssignment, error) {
	q := fmt.Sprintf(`SELECT seat_number, user_id, student_id, created_at FROM %s ORDER BY seat_number`, seatTable(g))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", seatTable(g), err)
	}
	defer rows.Close()
	out := make([]model.SeatAssignment, 0)
	for rows.Next() {
		var a model.SeatAssignment
		var studentID sql.NullString
		if err := rows.Scan(&a.SeatNumber, &a.Occupant, &studentID, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Gender = g
		if studentID.Valid {
			a.StudentID = studentID.String
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertAssignment claims a seat inside a transaction.  The student
// uniqueness check runs first across both partitions; the insert itself
// is guarded by the primary key on seat_number, which serializes
// concurrent claimers targeting the same seat.
func (s *Store) InsertAssignment(ctx context.Context, a *model.SeatAssignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin claim tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if a.StudentID != "" {
		existing, err := findByStudentTx(ctx, tx, a.StudentID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateStudent
		}
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	q := fmt.Sprintf(`INSERT INTO %s (seat_number, user_id, student_id, created_at) VALUES (?, ?, ?, ?)`, seatTable(a.Gender))
	var studentID any
	if a.StudentID != "" {
		studentID = a.StudentID
	}
	if _, err := tx.ExecContext(ctx, q, a.SeatNumber, a.Occupant, studentID, a.CreatedAt.Format("2006-01-02 15:04:05")); err != nil {
		return translateInsertErr(err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit claim tx: %w", err)
	}
	committed = true
	return nil
}

// translateInsertErr maps MySQL duplicate-key errors onto the sentinel
// errors callers branch on.  Error 1062 carries the violated key name:
// the primary key means the seat was taken, the student index means the
// student already holds a seat in this partition.
func translateInsertErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		if strings.Contains(me.Message, "PRIMARY") {
			return ErrSeatTaken
		}
		return ErrDuplicateStudent
	}
	return fmt.Errorf("insert assignment: %w", err)
}

func findByStudentTx(ctx context.Context, tx *sql.Tx, studentID string) (*model.SeatAssignment, error) {
	for _, g := range []model.Gender{model.Male, model.Female} {
		q := fmt.Sprintf(`SELECT seat_number, user_id, student_id, created_at FROM %s WHERE student_id = ?`, seatTable(g))
		var a model.SeatAssignment
		var sid sql.NullString
		err := tx.QueryRowContext(ctx, q, studentID).Scan(&a.SeatNumber, &a.Occupant, &sid, &a.CreatedAt)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find student in %s: %w", seatTable(g), err)
		}
		a.Gender = g
		if sid.Valid {
			a.StudentID = sid.String
		}
		return &a, nil
	}
	return nil, nil
}

// FindByStudent returns the assignment held by the student ID in either
// partition, or nil when the student holds no seat.
func (s *Store) FindByStudent(ctx context.Context, studentID string) (*model.SeatAssignment, error) {
	return s.findBy(ctx, "student_id", studentID)
}

// FindByOccupant returns the assignment held by the client identity in
// either partition, or nil when the client holds no seat.
func (s *Store) FindByOccupant(ctx context.Context, occupant string) (*model.SeatAssignment, error) {
	return s.findBy(ctx, "user_id", occupant)
}

func (s *Store) findBy(ctx context.Context, column, value string) (*model.SeatAssignment, error) {
	for _, g := range []model.Gender{model.Male, model.Female} {
		q := fmt.Sprintf(`SELECT seat_number, user_id, student_id, created_at FROM %s WHERE %s = ?`, seatTable(g), column)
		var a model.SeatAssignment
		var sid sql.NullString
		err := s.db.QueryRowContext(ctx, q, value).Scan(&a.SeatNumber, &a.Occupant, &sid, &a.CreatedAt)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find by %s in %s: %w", column, seatTable(g), err)
		}
		a.Gender = g
		if sid.Valid {
			a.StudentID = sid.String
		}
		return &a, nil
	}
	return nil, nil
}

// DeleteByOccupant removes the occupant's rows from both partitions in
// one transaction and reports how many rows were removed.  Calling it
// for an occupant that holds nothing is a no-op.
func (s *Store) DeleteByOccupant(ctx context.Context, occupant string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var total int64
	for _, g := range []model.Gender{model.Male, model.Female} {
		q := fmt.Sprintf(`DELETE FROM %s WHERE user_id = ?`, seatTable(g))
		res, err := tx.ExecContext(ctx, q, occupant)
		if err != nil {
			return 0, fmt.Errorf("delete from %s: %w", seatTable(g), err)
		}
		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete tx: %w", err)
	}
	committed = true
	return total, nil
}

// ResetAll empties both partitions and replaces the system state row in
// a single transaction, so clients never observe a wiped room without a
// bumped reset marker.
func (s *Store) ResetAll(ctx context.Context, state model.SystemState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, g := range []model.Gender{model.Male, model.Female} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, seatTable(g))); err != nil {
			return fmt.Errorf("reset %s: %w", seatTable(g), err)
		}
	}
	if err := upsertSystemStateTx(ctx, tx, state); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset tx: %w", err)
	}
	committed = true
	return nil
}

// GetSystemState returns the singleton system row.
func (s *Store) GetSystemState(ctx context.Context) (*model.SystemState, error) {
	const q = `SELECT id, reset_timestamp, reset_id, last_updated FROM system_info WHERE id = 1`
	var st model.SystemState
	err := s.db.QueryRowContext(ctx, q).Scan(&st.ID, &st.ResetTimestamp, &st.ResetID, &st.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get system state: %w", err)
	}
	return &st, nil
}

// UpsertSystemState updates the singleton system row, inserting it when
// missing.  ON DUPLICATE KEY UPDATE gives the insert-or-merge fallback
// in one statement.
func (s *Store) UpsertSystemState(ctx context.Context, state model.SystemState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := upsertSystemStateTx(ctx, tx, state); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert tx: %w", err)
	}
	committed = true
	return nil
}

func upsertSystemStateTx(ctx context.Context, tx *sql.Tx, state model.SystemState) error {
	const q = `INSERT INTO system_info (id, reset_timestamp, reset_id, last_updated)
	           VALUES (1, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE reset_timestamp = VALUES(reset_timestamp),
	                                   reset_id = VALUES(reset_id),
	                                   last_updated = VALUES(last_updated)`
	ts := state.ResetTimestamp.UTC().Format("2006-01-02 15:04:05")
	lu := state.LastUpdated.UTC().Format("2006-01-02 15:04:05")
	if _, err := tx.ExecContext(ctx, q, ts, state.ResetID, lu); err != nil {
		return fmt.Errorf("upsert system state: %w", err)
	}
	return nil
}
