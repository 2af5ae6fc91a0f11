package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeExtension writes an executable shell script trk-<name> in dir.
func writeExtension(t *testing.T, dir, name, script string) {
	t.Helper()
	path := filepath.Join(dir, "trk-"+name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("Failed to write trk-%s: %v", name, err)
	}
}

func TestExtensionMechanism(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts in this test")
	}
	tempDir := t.TempDir()
	t.Setenv("PATH", tempDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	writeExtension(t, tempDir, "hello", `env > "$1"`)
	writeExtension(t, tempDir, "fail", `exit 3`)

	old := *holdingsFile
	*holdingsFile = filepath.Join(tempDir, "random_holdings.json")
	defer func() { *holdingsFile = old }()

	out := filepath.Join(tempDir, "env.txt")
	found, code := RunExtension("hello", []string{out})
	if !found || code != 0 {
		t.Fatalf("RunExtension(hello) = %v, %d, want true, 0", found, code)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		EnvHoldingsFile + "=" + *holdingsFile,
		EnvCurrency + "=" + *defaultCurrency,
		EnvVerbose + "=false",
	} {
		if !strings.Contains(string(content), want) {
			t.Errorf("extension environment does not contain %q:\n%s", want, content)
		}
	}

	if found, code := RunExtension("fail", nil); !found || code != 3 {
		t.Errorf("RunExtension(fail) = %v, %d, want true, 3", found, code)
	}
	if found, _ := RunExtension("does-not-exist", nil); found {
		t.Error("RunExtension(does-not-exist) found an extension")
	}
}
