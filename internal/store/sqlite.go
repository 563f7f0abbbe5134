package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/erazemk/crafts/internal/model"
)

const driverSQLite = "sqlite"

// SQLite stores crafts as BSON documents in a SQLite table.
type SQLite struct {
	db *sql.DB
}

// NewSQLite returns a store on db. The schema must already exist.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// List returns all crafts in insertion order.
func (s *SQLite) List(ctx context.Context) (crafts []model.Craft, err error) {
	defer func(start time.Time) { observe(driverSQLite, "find", start, err) }(time.Now())

	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM crafts ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing crafts: %w", err)
	}
	defer rows.Close()

	crafts = []model.Craft{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning craft: %w", err)
		}
		c, err := decodeCraft(raw)
		if err != nil {
			return nil, err
		}
		crafts = append(crafts, *c)
	}
	return crafts, rows.Err()
}

// Get returns a craft by id.
func (s *SQLite) Get(ctx context.Context, id string) (c *model.Craft, err error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	defer func(start time.Time) { observe(driverSQLite, "findOne", start, err) }(time.Now())

	var raw []byte
	err = s.db.QueryRowContext(ctx, `SELECT doc FROM crafts WHERE id = ?`, oid.Hex()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting craft: %w", err)
	}
	return decodeCraft(raw)
}

// Create inserts a craft with a fresh ObjectID.
func (s *SQLite) Create(ctx context.Context, c model.Craft) (_ *model.Craft, err error) {
	defer func(start time.Time) { observe(driverSQLite, "insertOne", start, err) }(time.Now())

	c.ID = primitive.NewObjectID()
	if c.Supplies == nil {
		c.Supplies = []string{}
	}
	raw, err := bson.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding craft: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO crafts (id, doc) VALUES (?, ?)`,
		c.ID.Hex(), raw,
	); err != nil {
		return nil, fmt.Errorf("creating craft: %w", err)
	}
	return &c, nil
}

// Update replaces the stored document of a craft and returns the new version.
func (s *SQLite) Update(ctx context.Context, id string, c model.Craft) (_ *model.Craft, err error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	defer func(start time.Time) { observe(driverSQLite, "findOneAndUpdate", start, err) }(time.Now())

	c.ID = oid
	if c.Supplies == nil {
		c.Supplies = []string{}
	}
	raw, err := bson.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding craft: %w", err)
	}

	var stored []byte
	err = s.db.QueryRowContext(ctx,
		`UPDATE crafts SET doc = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? RETURNING doc`,
		raw, oid.Hex(),
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("updating craft: %w", err)
	}
	return decodeCraft(stored)
}

// Delete removes a craft and returns the removed document.
func (s *SQLite) Delete(ctx context.Context, id string) (_ *model.Craft, err error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	defer func(start time.Time) { observe(driverSQLite, "findOneAndDelete", start, err) }(time.Now())

	var raw []byte
	err = s.db.QueryRowContext(ctx, `DELETE FROM crafts WHERE id = ? RETURNING doc`, oid.Hex()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("deleting craft: %w", err)
	}
	return decodeCraft(raw)
}

// Ping checks the database connection.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func decodeCraft(raw []byte) (*model.Craft, error) {
	c := &model.Craft{}
	if err := bson.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("decoding craft: %w", err)
	}
	return c, nil
}
