package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/ianeli1/discordrs-diy/datastore"
	"github.com/ianeli1/discordrs-diy/internal/dispatch"
	"github.com/ianeli1/discordrs-diy/internal/gateway"
)

func newTestStorage(t *testing.T, path string) *Storage {
	t.Helper()
	ds, err := datastore.NewWithConfig(&datastore.Config{FilePath: path})
	if err != nil {
		t.Fatalf("datastore: %v", err)
	}
	return NewWithDatastore(ds)
}

func TestHistoryIsCapped(t *testing.T) {
	s := newTestStorage(t, filepath.Join(t.TempDir(), "db.json"))
	defer s.Close()

	for i := 0; i < commandHistoryLimit+5; i++ {
		err := s.SetCommand(CommandHistoryRecord{Destination: "chan", Command: fmt.Sprintf("c%d", i)})
		if err != nil {
			t.Fatalf("SetCommand: %v", err)
		}
	}

	history, err := s.GetCommandsHistory("chan")
	if err != nil {
		t.Fatalf("GetCommandsHistory: %v", err)
	}
	if len(history) != commandHistoryLimit {
		t.Fatalf("len = %d, want %d", len(history), commandHistoryLimit)
	}
	if history[0].Command != "c5" || history[len(history)-1].Command != "c24" {
		t.Errorf("window = %s..%s", history[0].Command, history[len(history)-1].Command)
	}

	other, err := s.GetCommandsHistory("elsewhere")
	if err != nil || len(other) != 0 {
		t.Errorf("other destination = %v, %v", other, err)
	}
}

func TestSetCommandNeedsDestination(t *testing.T) {
	s := newTestStorage(t, filepath.Join(t.TempDir(), "db.json"))
	defer s.Close()
	if err := s.SetCommand(CommandHistoryRecord{Command: "ping"}); err == nil {
		t.Error("record without destination accepted")
	}
}

func TestRecordInvocationSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	s := newTestStorage(t, path)

	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s.RecordInvocation(dispatch.Invocation{
		Message:  gateway.Message{Destination: "123", AuthorID: "u1", AuthorName: "alice", GuildID: "g"},
		Command:  "echo",
		Args:     "hi",
		Reply:    "hi",
		Datetime: at,
	})
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := newTestStorage(t, path)
	defer reopened.Close()

	history, err := reopened.GetCommandsHistory("123")
	if err != nil {
		t.Fatalf("GetCommandsHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history = %+v", history)
	}
	got := history[0]
	if !got.Datetime.Equal(at) {
		t.Errorf("Datetime = %v, want %v", got.Datetime, at)
	}
	got.Datetime = at
	want := CommandHistoryRecord{Destination: "123", GuildID: "g", AuthorID: "u1", AuthorName: "alice", Command: "echo", Args: "hi", Datetime: at}
	if got != want {
		t.Errorf("record = %+v, want %+v", got, want)
	}
}

func TestDestinationsAndClear(t *testing.T) {
	s := newTestStorage(t, filepath.Join(t.TempDir(), "db.json"))
	defer s.Close()

	for _, dest := range []string{"b", "a", "b"} {
		if err := s.SetCommand(CommandHistoryRecord{Destination: dest, Command: "ping"}); err != nil {
			t.Fatal(err)
		}
	}

	got := s.Destinations()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Destinations = %v", got)
	}
	if keys := s.Stats()["keys"]; keys != 2 {
		t.Errorf("Stats keys = %v", keys)
	}

	s.ClearHistory("b")
	if got := s.Destinations(); len(got) != 1 || got[0] != "a" {
		t.Errorf("after clear = %v", got)
	}
	history, err := s.GetCommandsHistory("b")
	if err != nil || len(history) != 0 {
		t.Errorf("cleared history = %v, %v", history, err)
	}
}
