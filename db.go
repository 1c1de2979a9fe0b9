package fontpack

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"fmt"

	"github.com/bodgit/fontpack/format"
	_ "github.com/mattn/go-sqlite3"
)

const rawEncoding = "raw"

// Catalog records converted fonts in an SQLite database so they can be
// listed and emitted again later.
type Catalog struct {
	db *sql.DB
}

// Entry is a font stored in the catalog.
type Entry struct {
	ID         int64
	SHA1       string
	Encoding   string
	Name       string
	Source     string
	Width      int
	Height     int
	CellWidth  int
	CellHeight int
	Glyphs     int
	PackedSize int
	Data       []byte
	Offsets    []int
}

// Output returns the data to hand to a formatter.
func (e *Entry) Output() *format.Data {
	d := &format.Data{
		Name:       e.Name,
		CellWidth:  e.CellWidth,
		CellHeight: e.CellHeight,
		Count:      e.Glyphs,
		Bytes:      e.Data,
	}
	if e.Encoding != rawEncoding {
		d.Encoding = e.Encoding
		d.Offsets = e.Offsets
	}
	return d
}

// NewCatalog opens the catalog in file, creating it if necessary.
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS font (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, encoding TEXT NOT NULL, name TEXT NOT NULL, source TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, cell_width INTEGER NOT NULL, cell_height INTEGER NOT NULL, glyphs INTEGER NOT NULL, packed_size INTEGER NOT NULL, data BLOB NOT NULL, offsets BLOB NOT NULL, UNIQUE(sha1, encoding))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func marshalOffsets(offsets []int) ([]byte, error) {
	v := make([]uint32, len(offsets))
	for i, o := range offsets {
		v[i] = uint32(o)
	}
	b := new(bytes.Buffer)
	if err := binary.Write(b, binary.LittleEndian, v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func unmarshalOffsets(b []byte) ([]int, error) {
	v := make([]uint32, len(b)/4)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, v); err != nil {
		return nil, err
	}
	offsets := make([]int, len(v))
	for i, o := range v {
		offsets[i] = int(o)
	}
	return offsets, nil
}

// Add stores f, replacing any earlier conversion of the same image with the
// same encoding.
func (c *Catalog) Add(f *Font) error {
	offsets, err := marshalOffsets(f.Offsets)
	if err != nil {
		return err
	}

	encoding := f.Encoding
	if encoding == "" {
		encoding = rawEncoding
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO font (sha1, encoding, name, source, width, height, cell_width, cell_height, glyphs, packed_size, data, offsets) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		f.SHA1, encoding, f.Name, f.Source, f.Width, f.Height, f.Layout.CellWidth, f.Layout.CellHeight, len(f.Glyphs), len(f.Packed), f.Data, offsets); err != nil {
		return err
	}
	return nil
}

const entryColumns = "id, sha1, encoding, name, source, width, height, cell_width, cell_height, glyphs, packed_size, data, offsets"

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var offsets []byte
	if err := s.Scan(&e.ID, &e.SHA1, &e.Encoding, &e.Name, &e.Source, &e.Width, &e.Height, &e.CellWidth, &e.CellHeight, &e.Glyphs, &e.PackedSize, &e.Data, &offsets); err != nil {
		return nil, err
	}
	var err error
	if e.Offsets, err = unmarshalOffsets(offsets); err != nil {
		return nil, err
	}
	return &e, nil
}

// Entries returns every font in the catalog ordered by name.
func (c *Catalog) Entries() ([]Entry, error) {
	rows, err := c.db.Query("SELECT " + entryColumns + " FROM font ORDER BY name, encoding")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Find returns the font converted from the image with the given SHA-1 using
// encoding, or nil if there is none.
func (c *Catalog) Find(sha1, encoding string) (*Entry, error) {
	if encoding == "" {
		encoding = rawEncoding
	}
	switch e, err := scanEntry(c.db.QueryRow("SELECT "+entryColumns+" FROM font WHERE sha1 = ? AND encoding = ?", sha1, encoding)); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return e, nil
	default:
		return nil, err
	}
}
