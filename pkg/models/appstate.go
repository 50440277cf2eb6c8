package models

import (
	"io"

	"github.com/admitdesk/admitdesk/config"
)

// AppState is a struct that holds the state of the application
// Use cmd.NewAppState to create a new instance
type AppState struct {
	KnowledgeStore KnowledgeStore
	AdmissionStore AdmissionStore
	DocumentStore  DocumentStore
	PaymentStore   PaymentStore
	GuardianStore  GuardianStore
	EntryTestStore EntryTestStore
	FileStore      FileStore
	// StoreCloser releases the backing store's resources on shutdown. May be nil.
	StoreCloser io.Closer
	Config      *config.Config
}

// FileStore persists uploaded document payloads and hands back an opaque key.
type FileStore interface {
	Save(admissionCode string, fileName string, r io.Reader) (string, error)
	Open(key string) (io.ReadCloser, error)
	Remove(key string) error
}
