package db

import (
	"database/sql"
	"html/template"
	"sync"
	"time"

	"github.com/schollz/versionedtext"
)

type FileSystem struct {
	Name string
	DB   *sql.DB
	sync.RWMutex
}

// File is a wiki page, addressed by space and name.
type File struct {
	Space    string                      `json:"space"`
	Name     string                      `json:"name"`
	Created  time.Time                   `json:"created"`
	Modified time.Time                   `json:"modified"`
	Data     string                      `json:"data"`
	History  versionedtext.VersionedText `json:"history"`
	DataHTML template.HTML               `json:"data_html,omitempty"`
	Views    int                         `json:"views"`
}

// Reference is the Space.Name form used in wiki links.
func (f File) Reference() string {
	return f.Space + "." + f.Name
}

func (f File) CreatedDate(utcOffset int) string {
	return formattedDate(f.Created, utcOffset)
}

func (f File) ModifiedDate(utcOffset int) string {
	return formattedDate(f.Modified, utcOffset)
}

// formattedDate renders t shifted by utcOffset hours.
func formattedDate(t time.Time, utcOffset int) string {
	return t.In(time.FixedZone("", utcOffset*60*60)).Format("3:04pm Jan 2 2006")
}
