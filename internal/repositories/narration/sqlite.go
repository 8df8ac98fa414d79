package narration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

// SQLiteRepository keeps narration state in a single SQLite table with the
// map and history fields stored as JSON text.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (and creates, if needed) the database at dsn.
func NewSQLite(dsn string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create narration data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writers anyway; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &SQLiteRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("[Narration] SQLite store ready: %s", dsn)
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	_, err := r.db.Exec(`
	CREATE TABLE IF NOT EXISTS narration_state (
		channel_id TEXT PRIMARY KEY,
		scene TEXT NOT NULL DEFAULT '',
		world_details TEXT NOT NULL DEFAULT '',
		npcs TEXT NOT NULL DEFAULT '{}',
		pending_rolls TEXT NOT NULL DEFAULT '{}',
		turns TEXT NOT NULL DEFAULT '[]',
		updated_at TEXT NOT NULL
	);`)
	return err
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	log.Println("[Narration] SQLite store closing")
	return r.db.Close()
}

func (r *SQLiteRepository) Get(ctx context.Context, channelID string) (*entities.NarrationState, error) {
	if channelID == "" {
		return nil, dnderr.InvalidArgument("channel ID is required")
	}

	var (
		state                     = entities.NewNarrationState(channelID)
		npcs, pending, turns, upd string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT scene, world_details, npcs, pending_rolls, turns, updated_at
		 FROM narration_state WHERE channel_id = ?`, channelID).
		Scan(&state.Scene, &state.WorldDetails, &npcs, &pending, &turns, &upd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dnderr.NotFoundf("narration state for channel %s not found", channelID).
			WithMeta("channel_id", channelID)
	}
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to query narration state").
			WithMeta("channel_id", channelID)
	}

	if err := json.Unmarshal([]byte(npcs), &state.NPCs); err != nil {
		return nil, dnderr.Wrap(err, "failed to decode npcs")
	}
	if err := json.Unmarshal([]byte(pending), &state.PendingRolls); err != nil {
		return nil, dnderr.Wrap(err, "failed to decode pending rolls")
	}
	if err := json.Unmarshal([]byte(turns), &state.Turns); err != nil {
		return nil, dnderr.Wrap(err, "failed to decode turns")
	}
	if t, err := time.Parse(time.RFC3339Nano, upd); err == nil {
		state.UpdatedAt = t
	}
	if state.NPCs == nil {
		state.NPCs = make(map[string]string)
	}
	if state.PendingRolls == nil {
		state.PendingRolls = make(map[string]string)
	}

	return state, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, state *entities.NarrationState) error {
	if state == nil {
		return dnderr.InvalidArgument("narration state cannot be nil")
	}
	if state.ChannelID == "" {
		return dnderr.InvalidArgument("channel ID is required")
	}

	state.UpdatedAt = r.now()

	npcs, err := json.Marshal(nonNilMap(state.NPCs))
	if err != nil {
		return dnderr.Wrap(err, "failed to encode npcs")
	}
	pending, err := json.Marshal(nonNilMap(state.PendingRolls))
	if err != nil {
		return dnderr.Wrap(err, "failed to encode pending rolls")
	}
	turns := state.Turns
	if turns == nil {
		turns = []entities.NarrationTurn{}
	}
	turnData, err := json.Marshal(turns)
	if err != nil {
		return dnderr.Wrap(err, "failed to encode turns")
	}

	_, err = r.db.ExecContext(ctx, `
	INSERT INTO narration_state (channel_id, scene, world_details, npcs, pending_rolls, turns, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(channel_id) DO UPDATE SET
		scene = excluded.scene,
		world_details = excluded.world_details,
		npcs = excluded.npcs,
		pending_rolls = excluded.pending_rolls,
		turns = excluded.turns,
		updated_at = excluded.updated_at`,
		state.ChannelID, state.Scene, state.WorldDetails,
		string(npcs), string(pending), string(turnData),
		state.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return dnderr.Wrap(err, "failed to save narration state").
			WithMeta("channel_id", state.ChannelID)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, channelID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM narration_state WHERE channel_id = ?`, channelID); err != nil {
		return dnderr.Wrap(err, "failed to delete narration state").
			WithMeta("channel_id", channelID)
	}
	return nil
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
