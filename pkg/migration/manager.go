package migration

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ayonsaha2011/libsql-orm/pkg/database"
	ormerrors "github.com/ayonsaha2011/libsql-orm/pkg/errors"
	"github.com/ayonsaha2011/libsql-orm/pkg/logging"
	"github.com/ayonsaha2011/libsql-orm/pkg/value"
)

// bookkeepingTable records which migrations have been applied.
const bookkeepingTable = "migrations"

const initSQL = "CREATE TABLE IF NOT EXISTS `migrations` (" +
	"`id` INTEGER PRIMARY KEY AUTOINCREMENT, " +
	"`name` TEXT NOT NULL UNIQUE, " +
	"`applied_at` TEXT NOT NULL)"

// Manager is the migration state machine. A migration moves Pending ->
// Applied through Execute and back only through an explicit Rollback.
type Manager struct {
	db          database.Database
	log         logging.Sink
	initialized bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSink sets the logging sink. The default discards events.
func WithSink(s logging.Sink) ManagerOption {
	return func(m *Manager) { m.log = s }
}

// NewManager creates a manager over the given database.
func NewManager(db database.Database, opts ...ManagerOption) *Manager {
	m := &Manager{db: db, log: logging.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) infof(format string, args ...any) {
	logging.Emitf(m.log, logging.LevelInfo, bookkeepingTable, format, args...)
}

// Init creates the bookkeeping table when it does not exist. Every operation
// calls it lazily; calling it explicitly is optional.
func (m *Manager) Init(ctx context.Context) error {
	if m.initialized {
		return nil
	}
	if _, err := m.db.Exec(ctx, initSQL, nil); err != nil {
		return err
	}
	m.initialized = true
	return nil
}

// IsApplied reports whether the named migration is recorded as applied.
func (m *Manager) IsApplied(ctx context.Context, name string) (bool, error) {
	if err := m.Init(ctx); err != nil {
		return false, err
	}
	rows, err := m.db.Query(ctx,
		"SELECT `name` FROM `migrations` WHERE `name` = ? LIMIT 1",
		[]value.Value{value.Text(name)})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// apply runs the up script and records the migration. It fails with
// AlreadyAppliedError when the name is already recorded.
func (m *Manager) apply(ctx context.Context, mig Migration) error {
	applied, err := m.IsApplied(ctx, mig.Name)
	if err != nil {
		return err
	}
	if applied {
		return ormerrors.NewAlreadyAppliedError(mig.Name)
	}
	return m.run(ctx, mig)
}

// run executes the up script and records the migration unconditionally.
func (m *Manager) run(ctx context.Context, mig Migration) error {
	if _, err := m.db.Exec(ctx, mig.Up, nil); err != nil {
		return ormerrors.NewScriptFailedError(mig.Name, "up", err)
	}
	if _, err := m.db.Exec(ctx,
		"INSERT INTO `migrations` (`name`, `applied_at`) VALUES (?, ?)",
		[]value.Value{value.Text(mig.Name), value.Text(time.Now().UTC().Format(value.TimeFormat))}); err != nil {
		return err
	}
	m.infof("applied migration '%s'", mig.Name)
	return nil
}

// Execute applies a migration. Re-executing an applied name is a logged
// no-op, never a re-execution.
func (m *Manager) Execute(ctx context.Context, mig Migration) error {
	err := m.apply(ctx, mig)
	var already *ormerrors.AlreadyAppliedError
	if errors.As(err, &already) {
		m.infof("migration '%s' already applied, skipping", mig.Name)
		return nil
	}
	return err
}

// ExecuteForced re-runs the up script even when the migration is recorded,
// recording it if it was not.
func (m *Manager) ExecuteForced(ctx context.Context, mig Migration) error {
	applied, err := m.IsApplied(ctx, mig.Name)
	if err != nil {
		return err
	}
	if !applied {
		return m.run(ctx, mig)
	}

	if _, err := m.db.Exec(ctx, mig.Up, nil); err != nil {
		return ormerrors.NewScriptFailedError(mig.Name, "up", err)
	}
	m.infof("re-applied migration '%s' (forced)", mig.Name)
	return nil
}

// Rollback executes the down script of an applied migration and clears its
// record. Rolling back an unapplied migration fails with NotAppliedError.
func (m *Manager) Rollback(ctx context.Context, mig Migration) error {
	applied, err := m.IsApplied(ctx, mig.Name)
	if err != nil {
		return err
	}
	if !applied {
		return ormerrors.NewNotAppliedError(mig.Name)
	}

	if _, err := m.db.Exec(ctx, mig.Down, nil); err != nil {
		return ormerrors.NewScriptFailedError(mig.Name, "down", err)
	}
	if _, err := m.db.Exec(ctx,
		"DELETE FROM `migrations` WHERE `name` = ?",
		[]value.Value{value.Text(mig.Name)}); err != nil {
		return err
	}
	m.infof("rolled back migration '%s'", mig.Name)
	return nil
}

// BatchResult reports a batch run. When a step fails, Failed carries its
// name and the error is returned alongside the partial result; remaining
// migrations are not attempted.
type BatchResult struct {
	BatchID string
	Applied int
	Skipped int
	Failed  string
}

// Run applies migrations strictly in the given order, halting on the first
// failure.
func (m *Manager) Run(ctx context.Context, migrations []Migration) (*BatchResult, error) {
	res := &BatchResult{BatchID: uuid.NewString()}
	m.infof("batch %s: running %d migration(s)", res.BatchID, len(migrations))

	for _, mig := range migrations {
		err := m.apply(ctx, mig)
		var already *ormerrors.AlreadyAppliedError
		switch {
		case err == nil:
			res.Applied++
		case errors.As(err, &already):
			m.infof("batch %s: migration '%s' already applied, skipping", res.BatchID, mig.Name)
			res.Skipped++
		default:
			res.Failed = mig.Name
			m.infof("batch %s: halted at '%s' after %d applied", res.BatchID, mig.Name, res.Applied)
			return res, err
		}
	}

	m.infof("batch %s: done, %d applied, %d skipped", res.BatchID, res.Applied, res.Skipped)
	return res, nil
}

// Applied returns the bookkeeping records in application order.
func (m *Manager) Applied(ctx context.Context) ([]Record, error) {
	if err := m.Init(ctx); err != nil {
		return nil, err
	}
	rows, err := m.db.Query(ctx,
		"SELECT `name`, `applied_at` FROM `migrations` ORDER BY `id`", nil)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := Record{}
		if s, ok := value.AsString(row["name"]); ok {
			rec.Name = s
		} else if b, ok := value.AsBytes(row["name"]); ok {
			rec.Name = string(b)
		}
		if raw, ok := row["applied_at"]; ok {
			if conv, err := value.FromStorage(raw, value.TypeTimestamp); err == nil {
				if ts, ok := value.AsTime(conv); ok {
					rec.AppliedAt = ts
				}
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Pending filters the given migrations down to those not yet applied.
func (m *Manager) Pending(ctx context.Context, migrations []Migration) ([]Migration, error) {
	records, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(records))
	for _, r := range records {
		done[r.Name] = true
	}

	pending := make([]Migration, 0, len(migrations))
	for _, mig := range migrations {
		if !done[mig.Name] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}
