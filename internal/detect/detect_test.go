package detect

import (
	"os"
	"path/filepath"
	"testing"

	"purgeall/internal/safety"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("enabled: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestConfigExplicitWins(t *testing.T) {
	t.Setenv(safety.EnvConfig, "/env/purgeall.yaml")
	if got := Config("/explicit/purgeall.yaml"); got != "/explicit/purgeall.yaml" {
		t.Errorf("explicit path should win, got %s", got)
	}
}

func TestConfigEnvVar(t *testing.T) {
	t.Setenv(safety.EnvConfig, "/env/purgeall.yaml")
	if got := Config(""); got != "/env/purgeall.yaml" {
		t.Errorf("expected env path, got %s", got)
	}
}

func TestSearchUpFindsInCurrentDir(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "purgeall.yaml")
	touch(t, want)

	if got := SearchUp(dir); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestSearchUpCandidateOrder(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "purgeall.yaml")
	hidden := filepath.Join(dir, ".purgeall.yaml")
	touch(t, plain)
	touch(t, hidden)

	if got := SearchUp(dir); got != plain {
		t.Errorf("purgeall.yaml should win over .purgeall.yaml, got %s", got)
	}
}

func TestSearchUpConfigSubdir(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "config", "purgeall.yaml")
	touch(t, want)

	if got := SearchUp(dir); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestSearchUpWalksParents(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, "purgeall.yaml")
	touch(t, want)

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if got := SearchUp(nested); got != want {
		t.Errorf("expected %s found from %s, got %q", want, nested, got)
	}
}

func TestSearchUpBoundedHops(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "purgeall.yaml"))

	// Four levels down is beyond the three-hop limit.
	nested := filepath.Join(root, "a", "b", "c", "d")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if got := SearchUp(nested); got != "" {
		t.Errorf("expected no match beyond hop limit, got %s", got)
	}
}

func TestSearchUpNothingFound(t *testing.T) {
	if got := SearchUp(t.TempDir()); got != "" {
		t.Errorf("expected empty, got %s", got)
	}
}

func TestLoadDotenvSetsVars(t *testing.T) {
	dir := t.TempDir()
	confPath := filepath.Join(dir, "purgeall.yaml")
	touch(t, confPath)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PURGEALL_TEST_DOTENV=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("PURGEALL_TEST_DOTENV") })

	LoadDotenv(confPath)
	if got := os.Getenv("PURGEALL_TEST_DOTENV"); got != "from-file" {
		t.Errorf("expected dotenv value, got %q", got)
	}
}

func TestLoadDotenvEnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	confPath := filepath.Join(dir, "purgeall.yaml")
	touch(t, confPath)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PURGEALL_TEST_PRESET=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PURGEALL_TEST_PRESET", "from-env")

	LoadDotenv(confPath)
	if got := os.Getenv("PURGEALL_TEST_PRESET"); got != "from-env" {
		t.Errorf("existing environment should win, got %q", got)
	}
}
