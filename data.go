package wikilinks

import (
	"embed"
)

var (
	//go:embed templates/*
	_templates embed.FS
)
