package flexlib

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
	"sync"

	"github.com/flexreminder/flexd/pkg/logger"
)

// Store is the single source of truth for reminder records. It keeps the
// full record set in memory and flushes a serialized blob to the Storage
// primitive before every mutation returns. The store never touches the
// network.
type Store struct {
	records RecordsMap
	storage Storage
	log     logger.Logger
	mu      sync.RWMutex
}

// InitStore creates a store backed by the given storage primitive and
// loads any previously persisted records. A corrupt or empty blob starts
// the store fresh rather than failing: reminder history is recoverable
// from the server on the next sync.
func InitStore(storage Storage, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	s := &Store{
		records: make(RecordsMap),
		storage: storage,
		log:     log,
	}
	data, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if len(data) > 0 {
		if decErr := gob.NewDecoder(bytes.NewReader(data)).Decode(&s.records); decErr != nil {
			log.Warning("failed to decode stored reminders, starting fresh: %v", decErr)
			s.records = make(RecordsMap)
		}
	}
	s.dropDuplicateRemoteIds()
	return s, nil
}

// dropDuplicateRemoteIds enforces the remoteId uniqueness invariant.
// When two records claim the same remoteId the earliest-created one wins
// and the offender is dropped.
func (s *Store) dropDuplicateRemoteIds() {
	byRemote := make(map[int64]*Record)
	for _, r := range s.records {
		if r.RemoteId == 0 {
			continue
		}
		prev, ok := byRemote[r.RemoteId]
		if !ok {
			byRemote[r.RemoteId] = r
			continue
		}
		keep, drop := prev, r
		if r.CreatedAt.Before(prev.CreatedAt) {
			keep, drop = r, prev
		}
		s.log.Warning("duplicate remote id %d: dropping record %s in favor of %s", drop.RemoteId, drop.Id, keep.Id)
		delete(s.records, drop.Id)
		byRemote[keep.RemoteId] = keep
	}
}

// flush persists the record set. Caller must hold s.mu.
func (s *Store) flush() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s.records); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := s.storage.Save(buf.Bytes()); err != nil {
		return fmt.Errorf("persist records: %w", err)
	}
	return nil
}

// Add inserts a new record and flushes. The id must be unused.
func (s *Store) Add(r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[r.Id]; ok {
		return ErrRecordExists
	}
	s.records[r.Id] = r.Clone()
	return s.flush()
}

// Update applies mutate to the record with the given id and flushes.
// The mutation is atomic: no reader observes a partially mutated record.
func (s *Store) Update(id string, mutate func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return ErrRecordNotFound
	}
	mutate(r)
	return s.flush()
}

// Remove deletes the record with the given id and flushes. Removing an
// unknown id is an error; local cancellation never removes records, only
// reconciliation against the server does.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrRecordNotFound
	}
	delete(s.records, id)
	return s.flush()
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return r.Clone(), nil
}

// GetByRemoteId returns a copy of the record carrying the given remote
// correlation id, or ErrRecordNotFound.
func (s *Store) GetByRemoteId(remoteId int64) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.RemoteId != 0 && r.RemoteId == remoteId {
			return r.Clone(), nil
		}
	}
	return nil, ErrRecordNotFound
}

// GetAll returns copies of all records sorted by creation time.
func (s *Store) GetAll() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r.Clone())
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records
}

// Filter returns copies of all records matching pred, sorted by creation
// time.
func (s *Store) Filter(pred func(*Record) bool) []*Record {
	var out []*Record
	for _, r := range s.GetAll() {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
