package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/starford/zametki/internal/models"
)

func tempJSON(t *testing.T, opts ...JSONOption) (*JSON, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "notes.json")
	j, err := OpenJSON(path, opts...)
	if err != nil {
		t.Fatalf("OpenJSON: %v", err)
	}
	return j, path
}

func sampleNotes() []models.Note {
	return []models.Note{
		{ID: 1, Title: "A", Text: "hello world", Date: "01.01.2024 10:00"},
		{ID: 2, Title: "Б", Text: "мир <b>&</b>", Date: "02.01.2024 11:00"},
	}
}

func TestReadData_MissingFile(t *testing.T) {
	j, _ := tempJSON(t)
	records, err := j.ReadData()
	if err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("records = %#v, want empty non-nil slice", records)
	}
}

func TestReadData_CorruptContent(t *testing.T) {
	cases := map[string]string{
		"garbage":  "{not json",
		"object":   `{"id": 1}`,
		"scalars":  `[1, 2, 3]`,
		"trailing": `[] []`,
		"empty":    "",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			var hooked string
			j, path := tempJSON(t, WithCorruptionHandler(func(p string, _ error) { hooked = p }))
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			records, err := j.ReadData()
			if err != nil {
				t.Fatalf("ReadData: %v", err)
			}
			if len(records) != 0 {
				t.Errorf("records = %#v, want empty", records)
			}
			if hooked == "" {
				t.Error("corruption handler not called")
			}
		})
	}
}

func TestReadData_NullDocument(t *testing.T) {
	j, path := tempJSON(t)
	_ = os.WriteFile(path, []byte("null"), 0o644)
	records, err := j.ReadData()
	if err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("records = %#v, want empty", records)
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	j, _ := tempJSON(t)
	notes := sampleNotes()

	records := make([]Record, len(notes))
	for i, n := range notes {
		records[i] = NoteToRecord(n)
	}
	if err := j.WriteData(records); err != nil {
		t.Fatalf("WriteData: %v", err)
	}

	got, err := j.ReadData()
	if err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	if len(got) != len(notes) {
		t.Fatalf("len = %d, want %d", len(got), len(notes))
	}
	for i, r := range got {
		n, err := RecordToNote(r)
		if err != nil {
			t.Fatalf("RecordToNote[%d]: %v", i, err)
		}
		if n != notes[i] {
			t.Errorf("note[%d] = %+v, want %+v", i, n, notes[i])
		}
	}
}

func TestWriteData_Format(t *testing.T) {
	j, path := tempJSON(t)
	if err := j.WriteData([]Record{NoteToRecord(sampleNotes()[1])}); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[\n" +
		"    {\n" +
		"        \"id\": 2,\n" +
		"        \"title\": \"Б\",\n" +
		"        \"text\": \"мир <b>&</b>\",\n" +
		"        \"date\": \"02.01.2024 11:00\"\n" +
		"    }\n" +
		"]"
	if string(raw) != want {
		t.Errorf("file content:\n%s\nwant:\n%s", raw, want)
	}
}

func TestWriteData_NilWritesEmptyArray(t *testing.T) {
	j, path := tempJSON(t)
	if err := j.WriteData(nil); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != "[]" {
		t.Errorf("content = %q, want []", raw)
	}
}

func TestWriteData_ReplacesWholeFile(t *testing.T) {
	j, _ := tempJSON(t)
	notes := sampleNotes()
	_ = j.WriteData([]Record{NoteToRecord(notes[0]), NoteToRecord(notes[1])})
	_ = j.WriteData([]Record{NoteToRecord(notes[1])})

	got, _ := j.ReadData()
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
}

func TestRecordToNote_FromDecodedJSON(t *testing.T) {
	var r Record
	dec := json.NewDecoder(strings.NewReader(`{"id": 5, "title": "T", "text": "B", "date": "03.03.2024 09:15", "extra": true}`))
	dec.UseNumber()
	if err := dec.Decode(&r); err != nil {
		t.Fatal(err)
	}
	n, err := RecordToNote(r)
	if err != nil {
		t.Fatalf("RecordToNote: %v", err)
	}
	want := models.Note{ID: 5, Title: "T", Text: "B", Date: "03.03.2024 09:15"}
	if n != want {
		t.Errorf("note = %+v, want %+v", n, want)
	}
	if back := NoteToRecord(n); !reflect.DeepEqual(back, Record{ID: 5, Title: "T", Text: "B", Date: "03.03.2024 09:15"}) {
		t.Errorf("record = %#v", back)
	}
}

func TestRecordToNote_MissingField(t *testing.T) {
	full := Record{ID: 1, Title: "T", Text: "B", Date: "d"}
	cases := map[string]Record{
		"id":    {Title: full.Title, Text: full.Text, Date: full.Date},
		"title": {ID: full.ID, Text: full.Text, Date: full.Date},
		"text":  {ID: full.ID, Title: full.Title, Date: full.Date},
		"date":  {ID: full.ID, Title: full.Title, Text: full.Text},
	}
	for field, r := range cases {
		_, err := RecordToNote(r)
		if !errors.Is(err, ErrMissingField) {
			t.Errorf("%s: err = %v, want ErrMissingField", field, err)
			continue
		}
		var mf *MissingFieldError
		if !errors.As(err, &mf) || mf.Field != field {
			t.Errorf("%s: missing field = %v", field, err)
		}
	}
}

func TestRecordToNote_InvalidID(t *testing.T) {
	_, err := RecordToNote(Record{ID: "abc", Title: "T", Text: "B", Date: "d"})
	if !errors.Is(err, ErrInvalidField) {
		t.Errorf("err = %v, want ErrInvalidField", err)
	}
}

func TestReadData_PermissionDeniedPropagates(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	j, path := tempJSON(t)
	_ = os.WriteFile(path, []byte("[]"), 0o000)
	if _, err := j.ReadData(); err == nil {
		t.Error("expected error reading unreadable file")
	}
}
