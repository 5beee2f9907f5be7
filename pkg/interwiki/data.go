package interwiki

import (
	_ "embed"
)

var (
	//go:embed intermap.txt
	_intermap string
)
