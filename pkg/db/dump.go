package db

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/schollz/sqlite3dump"
)

// DumpSQL returns the database as SQL statements.
func (fs *FileSystem) DumpSQL() (s string, err error) {
	fs.Lock()
	defer fs.Unlock()
	var b bytes.Buffer
	if err = sqlite3dump.Dump(fs.Name, &b); err != nil {
		return "", errors.Wrapf(err, "dump %s", fs.Name)
	}
	return b.String(), nil
}
