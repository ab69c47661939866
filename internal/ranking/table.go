// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ranking joins fetched literature against a journal
// credibility table and computes normalized credibility scores.
//
// The table is an external input (the SCImago journal rank export),
// supplied either as CSV or as a SQLite database. Journal names in
// fetched records rarely match the table verbatim, so the join is a
// fuzzy string match.
package ranking

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// Entry is one row of the credibility table. Rows keep file order;
// fuzzy-match ties resolve to the earlier row.
type Entry struct {
	// Journal is the canonical journal name.
	Journal string

	// Rank is the raw credibility rank. Lower is more prestigious.
	Rank float64

	// HasRank is false when the table carries no rank for the journal.
	HasRank bool
}

// Table is the loaded credibility table.
type Table struct {
	Entries []Entry
}

// LoadTable reads the credibility table at path, dispatching on the
// file extension: .db/.sqlite/.sqlite3 load via SQLite, anything else
// is parsed as CSV.
func LoadTable(path string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return LoadTableSQLite(path)
	default:
		return LoadTableCSV(path)
	}
}

// LoadTableCSV parses a CSV credibility table. The header must contain
// "Journal" and "Rank" columns (case-insensitive); other columns are
// ignored. A row with an empty or non-numeric rank is kept as unranked.
func LoadTableCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("opening credibility table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return Table{}, fmt.Errorf("reading credibility table header: %w", err)
	}

	journalCol, rankCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "journal":
			journalCol = i
		case "rank":
			rankCol = i
		}
	}
	if journalCol < 0 || rankCol < 0 {
		return Table{}, fmt.Errorf("credibility table must have Journal and Rank columns, got %v", header)
	}

	var table Table
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("reading credibility table row: %w", err)
		}
		if journalCol >= len(row) {
			continue
		}
		journal := strings.TrimSpace(row[journalCol])
		if journal == "" {
			continue
		}

		entry := Entry{Journal: journal}
		if rankCol < len(row) {
			if rank, err := strconv.ParseFloat(strings.TrimSpace(row[rankCol]), 64); err == nil {
				entry.Rank = rank
				entry.HasRank = true
			}
		}
		table.Entries = append(table.Entries, entry)
	}

	if len(table.Entries) == 0 {
		return Table{}, fmt.Errorf("credibility table %s contains no journals", path)
	}
	return table, nil
}

// rankingsTable is the expected table name in a SQLite credibility
// database.
const rankingsTable = "rankings"

// LoadTableSQLite reads the credibility table from a SQLite database
// holding a "rankings" table with journal and rank columns. NULL ranks
// load as unranked entries.
func LoadTableSQLite(path string) (Table, error) {
	if _, err := os.Stat(path); err != nil {
		return Table{}, fmt.Errorf("opening credibility table: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return Table{}, fmt.Errorf("opening credibility database: %w", err)
	}
	defer db.Close()

	query, args, err := sq.Select("journal", "rank").
		From(rankingsTable).
		OrderBy("rowid").
		ToSql()
	if err != nil {
		return Table{}, fmt.Errorf("building credibility query: %w", err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return Table{}, fmt.Errorf("querying credibility table: %w", err)
	}
	defer rows.Close()

	var table Table
	for rows.Next() {
		var (
			journal string
			rank    sql.NullFloat64
		)
		if err := rows.Scan(&journal, &rank); err != nil {
			return Table{}, fmt.Errorf("scanning credibility row: %w", err)
		}
		journal = strings.TrimSpace(journal)
		if journal == "" {
			continue
		}
		table.Entries = append(table.Entries, Entry{
			Journal: journal,
			Rank:    rank.Float64,
			HasRank: rank.Valid,
		})
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("reading credibility rows: %w", err)
	}

	if len(table.Entries) == 0 {
		return Table{}, fmt.Errorf("credibility table %s contains no journals", path)
	}
	return table, nil
}
