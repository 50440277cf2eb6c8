package web

import (
	"embed"

	"github.com/admitdesk/admitdesk/internal"
)

var log = internal.GetLogger()

//go:embed templates/*
var TemplatesFS embed.FS
