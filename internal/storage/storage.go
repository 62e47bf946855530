// Package storage keeps a per-channel history of dispatched commands.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ianeli1/discordrs-diy/datastore"
	"github.com/ianeli1/discordrs-diy/internal/dispatch"
)

const commandHistoryLimit = 20

// CommandHistoryRecord is one dispatched command.
type CommandHistoryRecord struct {
	Destination string    `json:"destination"`
	GuildID     string    `json:"guild_id,omitempty"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	Command     string    `json:"command"`
	Args        string    `json:"args"`
	Datetime    time.Time `json:"datetime"`
}

// Record is what is stored per destination.
type Record struct {
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
}

type Storage struct {
	ds *datastore.DataStore
	mu sync.Mutex
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// NewWithDatastore wraps an already opened datastore.
func NewWithDatastore(ds *datastore.DataStore) *Storage {
	return &Storage{ds: ds}
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// SetCommand appends a record to its destination's history, keeping the most
// recent entries only.
func (s *Storage) SetCommand(rec CommandHistoryRecord) error {
	if rec.Destination == "" {
		return fmt.Errorf("command record has no destination")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateRecord(rec.Destination)
	if err != nil {
		return err
	}

	record.CommandsHistoryList = append(record.CommandsHistoryList, rec)
	if n := len(record.CommandsHistoryList); n > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[n-commandHistoryLimit:]
	}
	s.ds.Add(historyKey(rec.Destination), record)
	return nil
}

// GetCommandsHistory returns the history of destination, oldest first.
func (s *Storage) GetCommandsHistory(destination string) ([]CommandHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateRecord(destination)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistoryList, nil
}

// Destinations lists every destination with a stored history.
func (s *Storage) Destinations() []string {
	var out []string
	for _, key := range s.ds.Keys() {
		if dest, ok := strings.CutPrefix(key, historyPrefix); ok {
			out = append(out, dest)
		}
	}
	return out
}

// ClearHistory forgets the history of destination.
func (s *Storage) ClearHistory(destination string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds.Delete(historyKey(destination))
}

// Stats describes the underlying datastore.
func (s *Storage) Stats() map[string]any {
	return s.ds.Stats()
}

// RecordInvocation stores a dispatched command. It has the shape of
// dispatch.RecordFunc; failures are logged, not returned.
func (s *Storage) RecordInvocation(inv dispatch.Invocation) {
	err := s.SetCommand(CommandHistoryRecord{
		Destination: inv.Message.Destination,
		GuildID:     inv.Message.GuildID,
		AuthorID:    inv.Message.AuthorID,
		AuthorName:  inv.Message.AuthorName,
		Command:     inv.Command,
		Args:        inv.Args,
		Datetime:    inv.Datetime,
	})
	if err != nil {
		log.Warn().Err(err).Str("command", inv.Command).Msg("failed to log command")
	}
}

// getOrCreateRecord decodes the stored record. Values read back from disk are
// generic JSON, so they go through a marshal/unmarshal round.
func (s *Storage) getOrCreateRecord(destination string) (*Record, error) {
	data, exists := s.ds.Get(historyKey(destination))
	if !exists {
		return &Record{CommandsHistoryList: []CommandHistoryRecord{}}, nil
	}
	if record, ok := data.(*Record); ok {
		copied := *record
		copied.CommandsHistoryList = append([]CommandHistoryRecord(nil), record.CommandsHistoryList...)
		return &copied, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}
	var record Record
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("error unmarshalling to *Record: %w", err)
	}
	if record.CommandsHistoryList == nil {
		record.CommandsHistoryList = []CommandHistoryRecord{}
	}
	return &record, nil
}

const historyPrefix = "history:"

func historyKey(destination string) string {
	return historyPrefix + destination
}
