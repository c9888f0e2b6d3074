package lsp

import (
	"sync"

	"golang.org/x/text/unicode/norm"

	"didls/internal/source"
)

// DocumentSnapshot is one immutable revision of an open document. Every
// edit replaces the whole snapshot, so readers hold a consistent text, rune
// and line view without further locking.
type DocumentSnapshot struct {
	URI     string
	File    *source.File
	Version int32
}

// newDocumentSnapshot builds the snapshot for one revision of a document.
// The text is NFC-normalized here so rune offsets agree for canonically
// equivalent inputs; everything downstream indexes the normalized runes.
func newDocumentSnapshot(uri, text string, version int32) *DocumentSnapshot {
	flags := source.FileVirtual
	if !norm.NFC.IsNormalString(text) {
		text = norm.NFC.String(text)
		flags |= source.FileNormalizedNFC
	}
	name := documentName(uri)
	fs := source.NewFileSet()
	id := fs.Add(name, text, flags)
	return &DocumentSnapshot{URI: uri, File: fs.Get(id), Version: version}
}

// documentStore maps open document URIs to their latest snapshot. The lock
// covers map access only; snapshots are immutable.
type documentStore struct {
	mu   sync.Mutex
	docs map[string]*DocumentSnapshot
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[string]*DocumentSnapshot)}
}

func (s *documentStore) set(snapshot *DocumentSnapshot) {
	s.mu.Lock()
	s.docs[snapshot.URI] = snapshot
	s.mu.Unlock()
}

func (s *documentStore) get(uri string) (*DocumentSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.docs[uri]
	return snapshot, ok
}

func (s *documentStore) delete(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}
