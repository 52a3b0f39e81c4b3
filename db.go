package atlaspack

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bodgit/atlaspack/manifest"
	_ "github.com/mattn/go-sqlite3"
)

// ResultDB stores finished pack results in a local sqlite database so
// they can be exported or uploaded later without repacking. It holds
// outputs only; the packing engine itself keeps no state between runs.
type ResultDB struct {
	db *sql.DB
}

// NewResultDB opens, creating if necessary, the result database at file.
func NewResultDB(file string) (*ResultDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS result (id INTEGER PRIMARY KEY NOT NULL, input TEXT NOT NULL UNIQUE, manifest BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS page (id INTEGER PRIMARY KEY NOT NULL, result_id INTEGER NOT NULL, page_index INTEGER NOT NULL, sha1 TEXT NOT NULL, image BLOB NOT NULL, FOREIGN KEY(result_id) REFERENCES result(id))"); err != nil {
		return nil, err
	}

	return &ResultDB{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (db *ResultDB) Close() error {
	return db.db.Close()
}

// Store saves the result under input, replacing any earlier result for
// the same input.
func (db *ResultDB) Store(input string, result *PackResult) error {
	b, err := json.Marshal(result.Manifest)
	if err != nil {
		return err
	}

	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int64
	switch err := tx.QueryRow("SELECT id FROM result WHERE input = ?", input).Scan(&id); err {
	case sql.ErrNoRows:
		r, err := tx.Exec("INSERT INTO result (input, manifest) VALUES (?, ?)", input, b)
		if err != nil {
			return err
		}
		if id, err = r.LastInsertId(); err != nil {
			return err
		}
	case nil:
		if _, err := tx.Exec("UPDATE result SET manifest = ? WHERE id = ?", b, id); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM page WHERE result_id = ?", id); err != nil {
			return err
		}
	default:
		return err
	}

	for _, atlas := range result.Atlases {
		if _, err := tx.Exec("INSERT INTO page (result_id, page_index, sha1, image) VALUES (?, ?, ?, ?)",
			id, atlas.PageIndex, hashBytes(atlas.Image), atlas.Image); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Manifest returns the stored manifest for input, or nil when there is
// no result for it.
func (db *ResultDB) Manifest(input string) (*manifest.AtlasManifest, error) {
	var b []byte
	switch err := db.db.QueryRow("SELECT manifest FROM result WHERE input = ?", input).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		m := new(manifest.AtlasManifest)
		if err := json.Unmarshal(b, m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, err
	}
}

// Pages returns the stored page images for input in page order.
func (db *ResultDB) Pages(input string) ([][]byte, error) {
	rows, err := db.db.Query("SELECT p.image FROM page AS p JOIN result AS r ON p.result_id = r.id WHERE r.input = ? ORDER BY p.page_index", input)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages [][]byte
	for rows.Next() {
		var image []byte
		if err := rows.Scan(&image); err != nil {
			return nil, err
		}
		pages = append(pages, image)
	}

	return pages, rows.Err()
}
