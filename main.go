package main

import (
	cmd "github.com/admitdesk/admitdesk/cmd/admitdesk"
	"github.com/admitdesk/admitdesk/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting admitdesk")
	cmd.Execute()
}
