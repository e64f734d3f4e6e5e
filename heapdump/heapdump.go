// Package heapdump writes snapshots of a runtime heap to a SQLite database
// for offline inspection:
//
//	objects(addr, class, color, words)  one row per allocated object
//	refs(src, dst)                      one row per pointer slot
//	roots(kind, slot, addr)             one row per rooted object reference
//	stats(name, value)                  collector counters
package heapdump

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/chazu/mcurt/vm"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE objects (
	addr  INTEGER PRIMARY KEY,
	class TEXT NOT NULL,
	color TEXT NOT NULL,
	words INTEGER NOT NULL
);
CREATE TABLE refs (
	src INTEGER NOT NULL,
	dst INTEGER NOT NULL
);
CREATE TABLE roots (
	kind TEXT NOT NULL,
	slot INTEGER NOT NULL,
	addr INTEGER NOT NULL
);
CREATE TABLE stats (
	name  TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
`

// Summary counts the rows written by Write.
type Summary struct {
	Objects int
	Refs    int
	Roots   int
	Words   int
}

// Write creates (or replaces) the database at path with a snapshot of rt.
// Objects that are unreachable but not yet swept are included.
func Write(ctx context.Context, path string, rt *vm.Runtime) (Summary, error) {
	var sum Summary
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return sum, fmt.Errorf("removing old dump: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return sum, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return sum, fmt.Errorf("creating tables: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return sum, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := writeObjects(ctx, tx, rt, &sum); err != nil {
		return sum, err
	}
	if err := writeRoots(ctx, tx, rt, &sum); err != nil {
		return sum, err
	}
	if err := writeStats(ctx, tx, rt.Stats()); err != nil {
		return sum, err
	}
	if err := tx.Commit(); err != nil {
		return sum, fmt.Errorf("committing dump: %w", err)
	}
	return sum, nil
}

func writeObjects(ctx context.Context, tx *sql.Tx, rt *vm.Runtime, sum *Summary) error {
	objStmt, err := tx.PrepareContext(ctx, "INSERT INTO objects (addr, class, color, words) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing object insert: %w", err)
	}
	defer objStmt.Close()
	refStmt, err := tx.PrepareContext(ctx, "INSERT INTO refs (src, dst) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("preparing ref insert: %w", err)
	}
	defer refStmt.Close()

	var werr error
	rt.Walk(func(info vm.ObjectInfo) bool {
		name := "?"
		if info.Class != nil {
			name = info.Class.Name
		}
		if _, werr = objStmt.ExecContext(ctx, int64(info.Addr), name, info.Color.String(), info.Words); werr != nil {
			werr = fmt.Errorf("saving object %#x: %w", uint32(info.Addr), werr)
			return false
		}
		sum.Objects++
		sum.Words += info.Words
		for _, r := range info.Refs {
			if _, werr = refStmt.ExecContext(ctx, int64(info.Addr), int64(r.Pointer())); werr != nil {
				werr = fmt.Errorf("saving reference from %#x: %w", uint32(info.Addr), werr)
				return false
			}
			sum.Refs++
		}
		return true
	})
	return werr
}

func writeRoots(ctx context.Context, tx *sql.Tx, rt *vm.Runtime, sum *Summary) error {
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO roots (kind, slot, addr) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing root insert: %w", err)
	}
	defer stmt.Close()

	var werr error
	slots := make(map[string]int)
	rt.ForEachRoot(func(kind string, v vm.Value) {
		slot := slots[kind]
		slots[kind]++
		if werr != nil || !v.IsObject() {
			return
		}
		if _, err := stmt.ExecContext(ctx, kind, slot, int64(v.Pointer())); err != nil {
			werr = fmt.Errorf("saving %s root %d: %w", kind, slot, err)
			return
		}
		sum.Roots++
	})
	return werr
}

func writeStats(ctx context.Context, tx *sql.Tx, s vm.Stats) error {
	rows := []struct {
		name  string
		value int64
	}{
		{"cycles", int64(s.Cycles)},
		{"steps", int64(s.Steps)},
		{"allocations", int64(s.Allocations)},
		{"freed_objects", int64(s.FreedObjects)},
		{"heap_bytes", int64(s.HeapBytes)},
		{"used_bytes", int64(s.UsedBytes)},
		{"largest_free_bytes", int64(s.LargestFreeBytes)},
	}
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx, "INSERT INTO stats (name, value) VALUES (?, ?)", r.name, r.value); err != nil {
			return fmt.Errorf("saving stat %s: %w", r.name, err)
		}
	}
	return nil
}

// ClassCount is one row of a class histogram.
type ClassCount struct {
	Class   string
	Objects int
	Words   int
}

// Histogram reads a dump and returns per-class object counts, largest
// first.
func Histogram(ctx context.Context, path string) ([]ClassCount, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening dump: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		"SELECT class, COUNT(*), SUM(words) FROM objects GROUP BY class ORDER BY SUM(words) DESC, class")
	if err != nil {
		return nil, fmt.Errorf("querying histogram: %w", err)
	}
	defer rows.Close()

	var out []ClassCount
	for rows.Next() {
		var c ClassCount
		if err := rows.Scan(&c.Class, &c.Objects, &c.Words); err != nil {
			return nil, fmt.Errorf("scanning histogram: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
