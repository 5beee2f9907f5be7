package db

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	log "github.com/schollz/logger"
	"github.com/schollz/versionedtext"
)

// ErrNotFound is the cause of errors for pages that do not exist.
var ErrNotFound = errors.New("page not found")

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	space TEXT NOT NULL,
	name TEXT NOT NULL,
	data TEXT NOT NULL DEFAULT '',
	history TEXT NOT NULL DEFAULT '{}',
	created TIMESTAMP NOT NULL,
	modified TIMESTAMP NOT NULL,
	views INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (space, name)
);
CREATE INDEX IF NOT EXISTS idx_pages_modified ON pages(space, modified);`

// New opens (and creates if needed) the sqlite database at name.
func New(name string) (fs *FileSystem, err error) {
	db, err := sql.Open("sqlite3", name)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	// a single connection keeps sqlite writes serialised
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	log.Debugf("opened %s", name)
	return &FileSystem{Name: name, DB: db}, nil
}

func (fs *FileSystem) Close() error {
	return fs.DB.Close()
}

// Save stores f, appending its data to the page history.
func (fs *FileSystem) Save(f File) (err error) {
	fs.Lock()
	defer fs.Unlock()

	now := time.Now().UTC()
	existing, err := fs.get(f.Space, f.Name)
	switch {
	case err == nil:
		f.Created = existing.Created
		f.Views = existing.Views
		f.History = existing.History
		f.History.Update(f.Data)
	case errors.Cause(err) == ErrNotFound:
		if f.Created.IsZero() {
			f.Created = now
		}
		f.History = versionedtext.NewVersionedText(f.Data)
	default:
		return err
	}
	f.Modified = now

	history, err := json.Marshal(f.History)
	if err != nil {
		return errors.Wrap(err, "encode history")
	}
	_, err = fs.DB.Exec(`INSERT OR REPLACE INTO pages (space, name, data, history, created, modified, views)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.Space, f.Name, f.Data, string(history), f.Created, f.Modified, f.Views)
	return errors.Wrapf(err, "save %s", f.Reference())
}

func (fs *FileSystem) Get(space, name string) (f File, err error) {
	fs.RLock()
	defer fs.RUnlock()
	return fs.get(space, name)
}

func (fs *FileSystem) get(space, name string) (f File, err error) {
	var history string
	err = fs.DB.QueryRow(`SELECT space, name, data, history, created, modified, views
		FROM pages WHERE space = ? AND name = ?`, space, name).
		Scan(&f.Space, &f.Name, &f.Data, &history, &f.Created, &f.Modified, &f.Views)
	if err == sql.ErrNoRows {
		return f, errors.Wrapf(ErrNotFound, "%s.%s", space, name)
	}
	if err != nil {
		return f, errors.Wrapf(err, "get %s.%s", space, name)
	}
	if err = json.Unmarshal([]byte(history), &f.History); err != nil {
		return f, errors.Wrapf(err, "decode history of %s.%s", space, name)
	}
	return f, nil
}

func (fs *FileSystem) Exists(space, name string) (bool, error) {
	fs.RLock()
	defer fs.RUnlock()
	var n int
	err := fs.DB.QueryRow(`SELECT COUNT(*) FROM pages WHERE space = ? AND name = ?`, space, name).Scan(&n)
	if err != nil {
		return false, errors.Wrapf(err, "check %s.%s", space, name)
	}
	return n > 0, nil
}

// GetAll lists the pages of a space, most recent first, without history.
func (fs *FileSystem) GetAll(space string, orderByCreated bool) (files []File, err error) {
	fs.RLock()
	defer fs.RUnlock()

	order := "modified"
	if orderByCreated {
		order = "created"
	}
	rows, err := fs.DB.Query(`SELECT space, name, data, created, modified, views
		FROM pages WHERE space = ? ORDER BY `+order+` DESC`, space)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", space)
	}
	defer rows.Close()
	for rows.Next() {
		var f File
		if err = rows.Scan(&f.Space, &f.Name, &f.Data, &f.Created, &f.Modified, &f.Views); err != nil {
			return nil, errors.Wrapf(err, "list %s", space)
		}
		files = append(files, f)
	}
	return files, errors.Wrapf(rows.Err(), "list %s", space)
}

// IncrementViews bumps the view counter of a page.
func (fs *FileSystem) IncrementViews(space, name string) error {
	fs.Lock()
	defer fs.Unlock()
	_, err := fs.DB.Exec(`UPDATE pages SET views = views + 1 WHERE space = ? AND name = ?`, space, name)
	return errors.Wrapf(err, "count view of %s.%s", space, name)
}
