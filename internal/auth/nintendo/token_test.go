package nintendo

import (
	"path/filepath"
	"testing"
)

func TestSessionTokenStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", TokenFileName(FamilyMyAccount))

	storage := NewSessionTokenStorage(FamilyMyAccount, "session-token-1")
	if err := storage.SaveTokenToFile(path); err != nil {
		t.Fatalf("SaveTokenToFile() error = %v", err)
	}

	loaded, err := LoadTokenFromFile(path)
	if err != nil {
		t.Fatalf("LoadTokenFromFile() error = %v", err)
	}
	if loaded.SessionToken != "session-token-1" {
		t.Errorf("SessionToken = %q", loaded.SessionToken)
	}
	if loaded.Family != string(FamilyMyAccount) {
		t.Errorf("Family = %q", loaded.Family)
	}
	if loaded.Type != "nintendo" {
		t.Errorf("Type = %q", loaded.Type)
	}
}

func TestLoadTokenFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadTokenFromFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadTokenFromFile() expected error for missing file")
	}
}
