package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SqlStore struct {
	db *sql.DB
}

func NewSqlStore(path string, reset bool) (*SqlStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; a single connection also keeps ":memory:" databases alive
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, err
	}

	if reset {
		if _, err := db.Exec(`
			DROP TABLE IF EXISTS frequencies;
			DROP TABLE IF EXISTS words;
			DROP TABLE IF EXISTS documents;
		`); err != nil {
			db.Close()
			return nil, err
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents(
			doc_id     INTEGER PRIMARY KEY,
			url        TEXT UNIQUE NOT NULL,
			text       TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS words(
			word_id INTEGER PRIMARY KEY,
			word    TEXT UNIQUE NOT NULL
		);
		CREATE TABLE IF NOT EXISTS frequencies(
			freq_id INTEGER PRIMARY KEY,
			doc_id  INTEGER NOT NULL,
			word_id INTEGER NOT NULL,
			count   INTEGER NOT NULL,
			word_rank INTEGER NOT NULL,
			FOREIGN KEY(doc_id) REFERENCES documents(doc_id) ON DELETE CASCADE,
			FOREIGN KEY(word_id) REFERENCES words(word_id),
			UNIQUE(doc_id, word_id)
		);
	`); err != nil {
		db.Close()
		return nil, err
	}

	return &SqlStore{db: db}, nil
}

func (s *SqlStore) SaveDocument(doc Document) error {
	_, err := s.db.Exec(`
		INSERT INTO documents(url, text, fetched_at) VALUES(?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET text = excluded.text, fetched_at = excluded.fetched_at;
	`, doc.URL, doc.Text, doc.FetchedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.URL, err)
	}
	return nil
}

func (s *SqlStore) Document(url string) (Document, bool, error) {
	var doc Document
	var fetched int64
	err := s.db.QueryRow(`SELECT url, text, fetched_at FROM documents WHERE url = ?`, url).
		Scan(&doc.URL, &doc.Text, &fetched)
	if err == sql.ErrNoRows {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, fmt.Errorf("load document %s: %w", url, err)
	}
	doc.FetchedAt = time.Unix(0, fetched)
	return doc, true, nil
}

func (s *SqlStore) SaveFrequencies(url string, table FrequencyTable) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := saveFrequenciesInTransaction(tx, url, table); err != nil {
		tx.Rollback()
		return fmt.Errorf("save frequencies for %s: %w", url, err)
	}
	return tx.Commit()
}

func saveFrequenciesInTransaction(tx *sql.Tx, url string, table FrequencyTable) error {
	var docID int64
	err := tx.QueryRow(`SELECT doc_id FROM documents WHERE url = ?`, url).Scan(&docID)
	if err == sql.ErrNoRows {
		return ErrDocumentNotFound
	} else if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM frequencies WHERE doc_id = ?`, docID); err != nil {
		return err
	}

	insertWord, err := tx.Prepare(`INSERT OR IGNORE INTO words(word) VALUES(?)`)
	if err != nil {
		return err
	}
	defer insertWord.Close()

	insertFreq, err := tx.Prepare(`
		INSERT INTO frequencies(doc_id, word_id, count, word_rank)
		SELECT ?, word_id, ?, ? FROM words WHERE word = ?;
	`)
	if err != nil {
		return err
	}
	defer insertFreq.Close()

	for rank, e := range table {
		if _, err := insertWord.Exec(e.Word); err != nil {
			return err
		}
		if _, err := insertFreq.Exec(docID, e.Count, rank, e.Word); err != nil {
			return err
		}
	}
	return nil
}

func (s *SqlStore) Frequencies(url string, limit int) (FrequencyTable, error) {
	if limit <= 0 {
		limit = -1 // no limit in sqlite
	}
	rows, err := s.db.Query(`
		SELECT w.word, f.count
		FROM documents d
		JOIN frequencies f ON f.doc_id = d.doc_id
		JOIN words w       ON w.word_id = f.word_id
		WHERE d.url = ?
		ORDER BY f.word_rank
		LIMIT ?;
	`, url, limit)
	if err != nil {
		return nil, fmt.Errorf("query frequencies for %s: %w", url, err)
	}
	defer rows.Close()

	table := FrequencyTable{}
	for rows.Next() {
		var e FrequencyEntry
		if err := rows.Scan(&e.Word, &e.Count); err != nil {
			return nil, err
		}
		table = append(table, e)
	}
	return table, rows.Err()
}

func (s *SqlStore) Documents(limit int) ([]Document, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT url, text, fetched_at FROM documents
		ORDER BY fetched_at DESC, url
		LIMIT ?;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var fetched int64
		if err := rows.Scan(&d.URL, &d.Text, &fetched); err != nil {
			return nil, err
		}
		d.FetchedAt = time.Unix(0, fetched)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *SqlStore) Close() error {
	return s.db.Close()
}
