package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the app against a store in dir and returns stdout and stderr.
func runCLI(t *testing.T, dir, locale string, args ...string) (string, string, error) {
	t.Helper()
	cfgPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(cfgPath); err != nil {
		content := "app:\n  log_level: error\n  locale: " + locale + "\n  http:\n    port: 8080\n" +
			"store:\n  path: " + filepath.Join(dir, "data", "notes.json") + "\n  watch: false\n"
		if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var out, errOut bytes.Buffer
	argv := append([]string{"zametki", "--config", cfgPath}, args...)
	err := newApp(&out, &errOut).Run(context.Background(), argv)
	return out.String(), errOut.String(), err
}

func TestAddListAndGet(t *testing.T) {
	dir := t.TempDir()

	out, _, err := runCLI(t, dir, "ru", "add", "--title", "Покупки", "--text", "молоко хлеб", "--date", "01.02.2024 09:30")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Заметка 1 сохранена") {
		t.Errorf("add output = %q", out)
	}

	out, _, err = runCLI(t, dir, "ru", "get", "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := "ID: 1\nНазвание: Покупки\nТекст: \nмолоко хлеб\nДата: 01.02.2024 09:30\n"
	if !strings.HasPrefix(out, want) {
		t.Errorf("get output = %q", out)
	}

	out, _, err = runCLI(t, dir, "ru", "titles")
	if err != nil {
		t.Fatalf("titles: %v", err)
	}
	if out != "Покупки\n" {
		t.Errorf("titles output = %q", out)
	}

	if _, err := os.Stat(filepath.Join(dir, "data", "notes.json")); err != nil {
		t.Errorf("store file not created: %v", err)
	}
}

func TestEmptyReportsGoToStderr(t *testing.T) {
	dir := t.TempDir()

	out, errOut, err := runCLI(t, dir, "ru", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out != "" || strings.TrimSpace(errOut) != "Заметок нет" {
		t.Errorf("stdout = %q, stderr = %q", out, errOut)
	}

	_, errOut, err = runCLI(t, dir, "ru", "search", "--date", "01.01.2000 00:00")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if strings.TrimSpace(errOut) != "Заметок с такой датой не найдено" {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestEnglishLocale(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := runCLI(t, dir, "en", "add", "--title", "Ideas", "--text", "go go"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, _, err := runCLI(t, dir, "en", "search", "--keyword", "go")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if strings.Count(out, "Title: Ideas") != 2 {
		t.Errorf("keyword output = %q", out)
	}

	_, errOut, err := runCLI(t, dir, "en", "get", "7")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.TrimSpace(errOut) != "No note with this id" {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestUsageErrors(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := runCLI(t, dir, "ru", "get", "abc"); err == nil {
		t.Error("non-numeric id should fail")
	}
	if _, _, err := runCLI(t, dir, "ru", "search", "--title", "a", "--keyword", "b"); err == nil {
		t.Error("two search modes should fail")
	}
	if _, _, err := runCLI(t, dir, "ru", "add", "--title", "   ", "--text", "x"); err == nil {
		t.Error("blank title should fail")
	}
}
