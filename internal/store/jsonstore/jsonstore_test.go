package jsonstore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
)

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), DataFileName)
	return New(path, WithClock(func() time.Time { return fixedNow })), path
}

func ids(todos []model.ToDo) []string {
	out := make([]string, len(todos))
	for i, td := range todos {
		out[i] = td.ID().String()
	}
	return out
}

func titles(todos []model.ToDo) []string {
	out := make([]string, len(todos))
	for i, td := range todos {
		out[i] = td.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLoadMissingFileUsesSamples(t *testing.T) {
	s, _ := newTestStore(t)

	res := s.Load()
	if res.Source != SourceSamples {
		t.Errorf("Source: got %v, want samples", res.Source)
	}
	if res.Warning != nil {
		t.Errorf("missing file should not warn, got %v", res.Warning)
	}
	if res.Count != 7 || s.Len() != 7 {
		t.Fatalf("got %d/%d entries, want 7", res.Count, s.Len())
	}
	if got, want := titles(s.All()), model.SampleTitles(); !equalStrings(got, want) {
		t.Errorf("titles: got %v, want %v", got, want)
	}
}

func TestLoadCorruptFileUsesSamples(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{{{"},
		{"wrong shape", `[{"title":"Buy milk"}]`},
		{"wrong version", `{"schema_version":2,"todos":[]}`},
		{"bad id", `{"schema_version":1,"todos":[{"id":"nope","title":"x","is_complete":false,"due_date":"2026-01-01T00:00:00Z"}]}`},
		{"bad date", `{"schema_version":1,"todos":[{"id":"0b8f3c1e-6d7a-4c55-9a57-2d2d3c7e1f10","title":"x","is_complete":false,"due_date":"yesterday"}]}`},
		{"missing title", `{"schema_version":1,"todos":[{"id":"0b8f3c1e-6d7a-4c55-9a57-2d2d3c7e1f10","is_complete":false,"due_date":"2026-01-01T00:00:00Z"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, path := newTestStore(t)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			var logs bytes.Buffer
			s.logger = logging.New(&logs, logging.DefaultOptions())

			res := s.Load()
			if res.Source != SourceSamples {
				t.Errorf("Source: got %v, want samples", res.Source)
			}
			if res.Warning == nil {
				t.Error("expected a warning")
			}
			if s.Len() != 7 {
				t.Errorf("got %d entries, want the 7 samples", s.Len())
			}
			if !strings.Contains(logs.String(), "using samples") {
				t.Errorf("expected diagnostic, got %q", logs.String())
			}
		})
	}
}

func TestSchemaErrorsCarryPath(t *testing.T) {
	_, err := Decode([]byte(`{"schema_version":1,"todos":[{"id":"0b8f3c1e-6d7a-4c55-9a57-2d2d3c7e1f10","title":"ok","is_complete":false,"due_date":"2026-01-01T00:00:00Z"},{"id":"nope","title":"x","is_complete":false,"due_date":"2026-01-01T00:00:00Z"}]}`))
	if err == nil {
		t.Fatal("expected error")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "todos[1].id") {
		t.Errorf("error should name todos[1].id: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, path := newTestStore(t)
	s.AddNew(model.New("Buy milk", false, fixedNow.Add(time.Hour), nil))
	s.AddNew(model.New("Call mum", true, fixedNow.Add(-48*time.Hour), model.WithNotes("re: birthday")))
	s.AddNew(model.New("", false, time.Time{}, model.WithNotes("untitled entries survive too")))
	before := s.All()

	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := New(path)
	res := loaded.Load()
	if res.Source != SourceDisk || res.Warning != nil {
		t.Fatalf("Load: got %+v", res)
	}
	after := loaded.All()
	if !equalStrings(ids(before), ids(after)) {
		t.Fatalf("id sequence changed: %v -> %v", ids(before), ids(after))
	}
	for i := range before {
		if !model.SameFields(before[i], after[i]) {
			t.Errorf("entry %d changed:\n got  %+v\n want %+v", i, after[i], before[i])
		}
	}
}

func TestSaveEmptyCollection(t *testing.T) {
	s, path := newTestStore(t)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := New(path)
	if res := loaded.Load(); res.Source != SourceDisk {
		t.Fatalf("an empty saved list must load from disk, got %v", res.Source)
	}
	if loaded.Len() != 0 {
		t.Errorf("got %d entries, want 0", loaded.Len())
	}
}

func TestSaveFileLayout(t *testing.T) {
	s, path := newTestStore(t)
	s.AddNew(model.New("Buy milk", false, fixedNow, nil))
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(b)
	for _, want := range []string{`"schema_version": 1`, `"title": "Buy milk"`, `"due_date": "2026-10-16T09:00:00Z"`} {
		if !strings.Contains(text, want) {
			t.Errorf("file missing %s:\n%s", want, text)
		}
	}
	if strings.Contains(text, `"notes"`) {
		t.Errorf("absent notes should be omitted:\n%s", text)
	}
	if !strings.HasSuffix(text, "}\n") {
		t.Error("file should end with a newline")
	}
}

func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", DataFileName)
	s := New(path)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("data file not written: %v", err)
	}
}

func TestSaveFailureKeepsMemoryAndOldFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(filepath.Join(blocker, DataFileName))
	s.AddNew(model.New("Buy milk", false, fixedNow, nil))

	if err := s.Save(); err == nil {
		t.Fatal("expected save to fail when the parent is a file")
	}
	if s.Len() != 1 {
		t.Errorf("in-memory collection changed: %d entries", s.Len())
	}
	b, _ := os.ReadFile(blocker)
	if string(b) != "not a dir" {
		t.Errorf("blocker file modified: %q", b)
	}
}

func TestSaveRefusesEntryWithoutID(t *testing.T) {
	s, path := newTestStore(t)
	keep := model.New("keep me", false, fixedNow, nil)
	s.AddNew(keep)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s.AddNew(model.ToDo{Title: "zero"})
	if err := s.Save(); !errors.Is(err, model.ErrMissingID) {
		t.Fatalf("Save: got %v, want ErrMissingID", err)
	}

	fresh := New(path)
	res := fresh.Load()
	if res.Source != SourceDisk || res.Warning != nil {
		t.Fatalf("previous file damaged: source=%v warning=%v", res.Source, res.Warning)
	}
	if got := ids(fresh.All()); !equalStrings(got, []string{keep.ID().String()}) {
		t.Errorf("got %v, want only the saved entry", got)
	}
}

func TestSaveRenameFailureLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DataFileName)
	// A non-empty directory at the target path makes the final rename fail.
	if err := os.MkdirAll(filepath.Join(path, "keep"), 0o700); err != nil {
		t.Fatal(err)
	}
	s := New(path)
	s.AddNew(model.New("Buy milk", false, fixedNow, nil))

	if err := s.Save(); err == nil {
		t.Fatal("expected rename to fail")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if _, err := os.Stat(filepath.Join(path, "keep")); err != nil {
		t.Errorf("previous content disturbed: %v", err)
	}
}

func TestSaveOverwritesWholeFile(t *testing.T) {
	s, path := newTestStore(t)
	a := model.New("A", false, fixedNow, nil)
	b := model.New("B", false, fixedNow, nil)
	s.AddNew(a)
	s.AddNew(b)
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	s.Remove(a)
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	loaded := New(path)
	loaded.Load()
	if got := titles(loaded.All()); !equalStrings(got, []string{"B"}) {
		t.Errorf("got %v, want [B]", got)
	}
}

func TestAddNewAppends(t *testing.T) {
	s, _ := newTestStore(t)
	r1 := model.New("one", false, fixedNow, nil)
	r2 := model.New("two", false, fixedNow, nil)
	s.AddNew(r1)
	s.AddNew(r2)

	all := s.All()
	if len(all) != 2 || !all[1].Equal(r2) {
		t.Fatalf("r2 not appended at end: %v", all)
	}
	count := 0
	for _, td := range all {
		if td.Equal(r2) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("r2 appears %d times", count)
	}
}

func TestRemove(t *testing.T) {
	s, _ := newTestStore(t)
	a := model.New("Buy milk", false, fixedNow, nil)
	s.AddNew(a)

	if !s.Remove(a) {
		t.Fatal("Remove reported not found")
	}
	if s.Len() != 0 {
		t.Errorf("got %d entries, want 0", s.Len())
	}
}

func TestRemoveMatchesByID(t *testing.T) {
	s, _ := newTestStore(t)
	a := model.New("Buy milk", false, fixedNow, nil)
	b := model.New("Bake bread", false, fixedNow, nil)
	s.AddNew(a)
	s.AddNew(b)

	edited := a
	edited.Title = "Buy oat milk"
	if !s.Remove(edited) {
		t.Fatal("Remove should match on id, not fields")
	}
	for _, td := range s.All() {
		if td.Equal(a) {
			t.Error("entry with a's id still present")
		}
	}
}

func TestRemoveDropsDuplicates(t *testing.T) {
	s, _ := newTestStore(t)
	a := model.New("A", false, fixedNow, nil)
	b := model.New("B", false, fixedNow, nil)
	s.AddNew(a)
	s.AddNew(b)
	s.AddNew(a)

	s.Remove(a)
	if got := ids(s.All()); !equalStrings(got, []string{b.ID().String()}) {
		t.Errorf("got %v, want only b", got)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	a := model.New("A", false, fixedNow, nil)
	b := model.New("B", false, fixedNow, nil)
	s.AddNew(a)
	s.AddNew(b)
	before := ids(s.All())

	if s.Remove(model.New("C", false, fixedNow, nil)) {
		t.Error("Remove reported success for an absent entry")
	}
	if got := ids(s.All()); !equalStrings(got, before) {
		t.Errorf("collection changed: %v -> %v", before, got)
	}
}

func TestReplaceOrAppend(t *testing.T) {
	s, _ := newTestStore(t)
	r1 := model.New("r1", false, fixedNow, nil)
	r2 := model.New("r2", false, fixedNow, nil)
	s.AddNew(r1)
	s.AddNew(r2)

	r1b := r1
	r1b.Title = "r1 edited"
	if !s.ReplaceOrAppend(r1b) {
		t.Error("expected a replacement")
	}
	all := s.All()
	if len(all) != 2 || !all[0].Equal(r1) || all[0].Title != "r1 edited" || !all[1].Equal(r2) {
		t.Fatalf("got %v, want [r1', r2]", titles(all))
	}

	r3 := model.New("r3", false, fixedNow, nil)
	if s.ReplaceOrAppend(r3) {
		t.Error("expected an append")
	}
	if got := titles(s.All()); !equalStrings(got, []string{"r1 edited", "r2", "r3"}) {
		t.Errorf("got %v", got)
	}
}

func TestUpdate(t *testing.T) {
	s, _ := newTestStore(t)
	a := model.New("A", false, fixedNow, nil)
	s.AddNew(a)

	ok := s.Update(a.ID(), func(td *model.ToDo) { td.IsComplete = true })
	if !ok {
		t.Fatal("Update reported not found")
	}
	got, _ := s.Get(a.ID())
	if !got.IsComplete {
		t.Error("change not applied")
	}

	if s.Update(model.New("x", false, fixedNow, nil).ID(), func(*model.ToDo) {}) {
		t.Error("Update on unknown id should report false")
	}

	swapped := s.Update(a.ID(), func(td *model.ToDo) { *td = model.New("other", false, fixedNow, nil) })
	if swapped {
		t.Error("replacing the id through Update must be refused")
	}
	if got, _ := s.Get(a.ID()); got.Title != "A" {
		t.Errorf("refused update leaked: %q", got.Title)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddNew(model.New("A", false, fixedNow, nil))

	all := s.All()
	all[0].Title = "mutated"
	if got, _ := s.At(0); got.Title != "A" {
		t.Errorf("All exposed the backing slice: %q", got.Title)
	}
}

func TestAt(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddNew(model.New("A", false, fixedNow, nil))

	if _, err := s.At(0); err != nil {
		t.Errorf("At(0): %v", err)
	}
	for _, i := range []int{-1, 1} {
		if _, err := s.At(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("At(%d): got %v, want ErrIndexOutOfRange", i, err)
		}
	}
}

func TestLoadReplacesCollection(t *testing.T) {
	s, path := newTestStore(t)
	s.AddNew(model.New("saved", false, fixedNow, nil))
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	s.AddNew(model.New("unsaved", false, fixedNow, nil))

	s.Load()
	if got := titles(s.All()); !equalStrings(got, []string{"saved"}) {
		t.Errorf("got %v, want [saved]", got)
	}
	if s.Path() != path {
		t.Errorf("Path: got %q, want %q", s.Path(), path)
	}
}
