// Copyright 2025 Northern.tech AS
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

// Package sqlite implements the DataStore on a single-file SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mendersoftware/devicecommands/model"
	"github.com/mendersoftware/devicecommands/store"
)

const driverName = "sqlite"

var migrations = []string{
	`PRAGMA journal_mode = WAL;`,
	`CREATE TABLE IF NOT EXISTS commands (
		id TEXT PRIMARY KEY,
		device_id TEXT NOT NULL,
		type TEXT NOT NULL,
		value TEXT NOT NULL,
		status TEXT NOT NULL,
		retry_count INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_commands_pending_unique
		ON commands(device_id, type, value) WHERE status = 'pending';`,
	`CREATE INDEX IF NOT EXISTS idx_commands_device_status
		ON commands(device_id, status, created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_commands_status_created
		ON commands(status, created_at);`,
	`CREATE TABLE IF NOT EXISTS devices (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		last_ping_at INTEGER NOT NULL,
		current_stat TEXT NOT NULL DEFAULT '{}'
	);`,
	`CREATE INDEX IF NOT EXISTS idx_devices_status ON devices(status, last_ping_at);`,
}

// DataStoreSQLite is a DataStore backed by a SQLite database file.
// Timestamps are kept as unix milliseconds.
type DataStoreSQLite struct {
	db *sql.DB
}

var _ store.DataStore = &DataStoreSQLite{}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(ctx context.Context, path string) (*DataStoreSQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}
	// a single connection serializes every statement
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	ds := &DataStoreSQLite{db: db}
	if err := ds.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ds, nil
}

// Migrate creates the tables and indexes that do not exist yet
func (ds *DataStoreSQLite) Migrate(ctx context.Context) error {
	log.FromContext(ctx).Debug("applying sqlite schema")
	for _, stmt := range migrations {
		if _, err := ds.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrate failed")
		}
	}
	return nil
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// isPendingConflict reports a violation of idx_commands_pending_unique.
// Other constraint failures, such as a reused command id, are not
// duplicates of a pending command.
func isPendingConflict(err error) bool {
	var serr *msqlite.Error
	if !errors.As(err, &serr) || serr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return false
	}
	return strings.Contains(serr.Error(), "UNIQUE constraint failed: commands.device_id")
}

// Ping verifies the connection to the database
func (ds *DataStoreSQLite) Ping(ctx context.Context) error {
	return ds.db.PingContext(ctx)
}

// InsertCommand stores a new command
func (ds *DataStoreSQLite) InsertCommand(ctx context.Context, cmd *model.Command) error {
	if cmd.Value == nil {
		return errors.New("sqlite: command without value")
	}
	_, err := ds.db.ExecContext(ctx,
		`INSERT INTO commands (id, device_id, type, value, status, retry_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cmd.ID, cmd.DeviceID, string(cmd.Type), cmd.Value.Key(),
		string(cmd.Status), cmd.RetryCount, toMillis(cmd.CreatedAt),
	)
	if isPendingConflict(err) {
		return store.ErrDuplicatePendingCommand
	}
	return err
}

const commandColumns = `id, device_id, type, value, status, retry_count, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommand(row rowScanner) (*model.Command, error) {
	var (
		cmd       model.Command
		typ       string
		value     string
		status    string
		createdAt int64
	)
	err := row.Scan(&cmd.ID, &cmd.DeviceID, &typ, &value, &status,
		&cmd.RetryCount, &createdAt)
	if err != nil {
		return nil, err
	}
	cmd.Type = model.CommandType(typ)
	cmd.Status = model.CommandStatus(status)
	cmd.CreatedAt = fromMillis(createdAt)
	cmd.Value, err = model.ParseValue(cmd.Type, json.RawMessage(value))
	if err != nil {
		return nil, errors.Wrapf(err, "corrupt value in command %s", cmd.ID)
	}
	return &cmd, nil
}

func commandWhere(filter model.CommandFilter) (string, []any) {
	where := " WHERE 1 = 1"
	var args []any
	if filter.DeviceID != "" {
		where += " AND device_id = ?"
		args = append(args, filter.DeviceID)
	}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	return where, args
}

// GetCommand returns a command, or nil if it does not exist
func (ds *DataStoreSQLite) GetCommand(ctx context.Context, commandID string) (*model.Command, error) {
	row := ds.db.QueryRowContext(ctx,
		`SELECT `+commandColumns+` FROM commands WHERE id = ?`, commandID)
	cmd, err := scanCommand(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return cmd, err
}

// FindCommand returns the oldest command matching the filter, or nil
func (ds *DataStoreSQLite) FindCommand(ctx context.Context, filter model.CommandFilter) (*model.Command, error) {
	where, args := commandWhere(filter)
	row := ds.db.QueryRowContext(ctx,
		`SELECT `+commandColumns+` FROM commands`+where+
			` ORDER BY created_at, rowid LIMIT 1`, args...)
	cmd, err := scanCommand(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return cmd, err
}

// ListCommands returns the commands matching the filter, oldest first
func (ds *DataStoreSQLite) ListCommands(ctx context.Context, filter model.CommandFilter) ([]model.Command, error) {
	where, args := commandWhere(filter)
	rows, err := ds.db.QueryContext(ctx,
		`SELECT `+commandColumns+` FROM commands`+where+
			` ORDER BY created_at, rowid`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	commands := []model.Command{}
	for rows.Next() {
		cmd, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		commands = append(commands, *cmd)
	}
	return commands, rows.Err()
}

// UpdateCommandStatus moves a command from one status to another
func (ds *DataStoreSQLite) UpdateCommandStatus(
	ctx context.Context,
	commandID string,
	from, to model.CommandStatus,
) (bool, error) {
	res, err := ds.db.ExecContext(ctx,
		`UPDATE commands SET status = ? WHERE id = ? AND status = ?`,
		string(to), commandID, string(from))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// UpsertDevicePing records a poll, creating the device on first contact
func (ds *DataStoreSQLite) UpsertDevicePing(ctx context.Context, deviceID string, ts time.Time) error {
	_, err := ds.db.ExecContext(ctx,
		`INSERT INTO devices (id, status, last_ping_at, current_stat)
		VALUES (?, ?, ?, '{}')
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			last_ping_at = excluded.last_ping_at`,
		deviceID, string(model.DeviceStatusOnline), toMillis(ts))
	return err
}

func scanDevice(row rowScanner) (*model.Device, error) {
	var (
		dev         model.Device
		status      string
		lastPingAt  int64
		currentStat string
	)
	if err := row.Scan(&dev.ID, &status, &lastPingAt, &currentStat); err != nil {
		return nil, err
	}
	dev.Status = model.DeviceStatus(status)
	dev.LastPingAt = fromMillis(lastPingAt)
	dev.CurrentStat = map[string]interface{}{}
	if err := json.Unmarshal([]byte(currentStat), &dev.CurrentStat); err != nil {
		return nil, errors.Wrapf(err, "corrupt current_stat for device %s", dev.ID)
	}
	return &dev, nil
}

// GetDevice returns a device, or nil if it does not exist
func (ds *DataStoreSQLite) GetDevice(ctx context.Context, deviceID string) (*model.Device, error) {
	row := ds.db.QueryRowContext(ctx,
		`SELECT id, status, last_ping_at, current_stat FROM devices WHERE id = ?`,
		deviceID)
	dev, err := scanDevice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return dev, err
}

// ListDevices returns the devices matching the filter
func (ds *DataStoreSQLite) ListDevices(ctx context.Context, filter model.DeviceFilter) ([]model.Device, error) {
	query := `SELECT id, status, last_ping_at, current_stat FROM devices`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(filter.Status))
	}
	rows, err := ds.db.QueryContext(ctx, query+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	devices := []model.Device{}
	for rows.Next() {
		dev, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, *dev)
	}
	return devices, rows.Err()
}

// SetDeviceOffline marks an online device offline unless it pinged after
// the cutoff
func (ds *DataStoreSQLite) SetDeviceOffline(ctx context.Context, deviceID string, cutoff time.Time) (bool, error) {
	res, err := ds.db.ExecContext(ctx,
		`UPDATE devices SET status = ?
		WHERE id = ? AND status = ? AND last_ping_at <= ?`,
		string(model.DeviceStatusOffline), deviceID,
		string(model.DeviceStatusOnline), toMillis(cutoff))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Close closes the database
func (ds *DataStoreSQLite) Close() error {
	return ds.db.Close()
}
