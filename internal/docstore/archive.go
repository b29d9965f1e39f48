package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Archive reads documents from a local SQLite export of the document
// service, for deployments that query offline.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens the SQLite archive at path and ensures its schema
// exists, so a freshly exported (or empty) archive is always readable.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open document archive: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created TEXT NOT NULL,
			added TEXT NOT NULL,
			archive_serial_number INTEGER
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare document archive schema: %w", err)
	}

	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

const documentColumns = "id, title, content, created, added, archive_serial_number"

func (a *Archive) Fetch(ctx context.Context, id int64) (Document, error) {
	row := a.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("fetch document %d: %w", id, err)
	}
	return doc, nil
}

func (a *Archive) List(ctx context.Context) ([]Document, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Put inserts or replaces a document. Used by export tooling and tests;
// query serving never writes.
func (a *Archive) Put(ctx context.Context, doc Document) error {
	_, err := a.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO documents ("+documentColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		doc.ID, doc.Title, doc.Content, doc.Created, doc.Added, doc.ArchiveSerialNumber)
	if err != nil {
		return fmt.Errorf("put document %d: %w", doc.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var asn sql.NullInt64
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Created, &doc.Added, &asn); err != nil {
		return Document{}, err
	}
	if asn.Valid {
		doc.ArchiveSerialNumber = &asn.Int64
	}
	return doc, nil
}
