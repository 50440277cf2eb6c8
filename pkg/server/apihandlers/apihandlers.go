package apihandlers

import (
	"github.com/admitdesk/admitdesk/internal"
)

var log = internal.GetLogger()

// ToggleResponse reports the entry-test flag after a toggle.
type ToggleResponse struct {
	Message           string `json:"message"`
	EntryTestUnlocked bool   `json:"entry_test_unlocked"`
}

func newToggleResponse(unlocked bool) *ToggleResponse {
	action := "revoked"
	if unlocked {
		action = "granted"
	}
	return &ToggleResponse{
		Message:           "Entry test access " + action,
		EntryTestUnlocked: unlocked,
	}
}
