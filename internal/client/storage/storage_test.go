package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FileNotExist(t *testing.T) {
	ls := New(filepath.Join(t.TempDir(), "storage.json"))
	if err := ls.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	_, ok, err := ls.Get(context.Background(), "accounts")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Errorf("expected missing slot")
	}
}

func TestLoad_FileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	buf, _ := json.Marshal(fileData{Slots: map[string]string{"accounts": "[]"}, UpdatedAt: 5})
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		t.Fatal(err)
	}

	ls := New(path)
	if err := ls.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, ok, err := ls.Get(context.Background(), "accounts")
	if err != nil || !ok || v != "[]" {
		t.Errorf("Get = %q, %v, %v; want \"[]\", true, nil", v, ok, err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{oops"), 0o600); err != nil {
		t.Fatal(err)
	}

	ls := New(path)
	if err := ls.Load(); err == nil {
		t.Fatal("expected parse error")
	}
	if _, _, err := ls.Get(context.Background(), "accounts"); err == nil {
		t.Fatal("expected Get to surface parse error")
	}
}

func TestSet_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	ls := New(path)

	before := time.Now().Unix()
	if err := ls.Set(context.Background(), "accounts", `[{"id":"1"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var out fileData
	if err := json.Unmarshal(buf, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out.Slots["accounts"] != `[{"id":"1"}]` {
		t.Errorf("unexpected saved data: %+v", out)
	}
	if out.UpdatedAt < before {
		t.Errorf("UpdatedAt = %d; want >= %d", out.UpdatedAt, before)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != fileMode {
		t.Errorf("file mode = %v; want %v", perm, fileMode)
	}

	matches, _ := filepath.Glob(path + ".tmp-*")
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestSet_ReopenSeesValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := New(path).Set(context.Background(), "a", "1"); err != nil {
		t.Fatal(err)
	}
	if err := New(path).Set(context.Background(), "b", "2"); err != nil {
		t.Fatal(err)
	}

	ls := New(path)
	for key, want := range map[string]string{"a": "1", "b": "2"} {
		got, ok, err := ls.Get(context.Background(), key)
		if err != nil || !ok || got != want {
			t.Errorf("Get(%q) = %q, %v, %v; want %q", key, got, ok, err, want)
		}
	}
}

func TestNew_DefaultPath(t *testing.T) {
	if got := New("").Path(); got != DefaultFile {
		t.Errorf("Path() = %q; want %q", got, DefaultFile)
	}
}
