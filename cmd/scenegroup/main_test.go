package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCatalog = `
[[groups]]
name = "menu"

[[groups.scenes]]
path = "Scenes/Menu.unity"
role = "ActiveScene"

[[groups]]
name = "forest"

[[groups.scenes]]
path = "Scenes/Forest.unity"
role = "ActiveScene"

[[groups.scenes]]
path  = "ui/hud"
store = "addressable"
role  = "HUD"
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTestFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestValidateAndList(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "game.toml", testCatalog)

	out, err := runCLI(t, "validate", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "2 groups, 3 scenes") {
		t.Errorf("validate output = %q", out)
	}

	out, err = runCLI(t, "list", path)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"Forest", "hud", "addressable", "HUD", "ActiveScene"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateRejectsBadCatalog(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "bad.toml", "[[groups]]\nname = \"x\"\n[[groups.scenes]]\npath = \"a\"\n")
	if _, err := runCLI(t, "validate", path); err == nil {
		t.Error("validate accepted a scene without a role")
	}
}

func TestContentAndLoad(t *testing.T) {
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	catalogPath := writeTestFile(t, dir, "game.toml", testCatalog)
	bundle := writeTestFile(t, dir, "hud.bundle", strings.Repeat("x", 4096))

	out, err := runCLI(t, "--content", contentDir, "content", "import", "ui/hud="+bundle)
	if err != nil {
		t.Fatalf("content import: %v", err)
	}
	if !strings.Contains(out, "imported ui/hud as scene hud (4096 bytes)") {
		t.Errorf("import output = %q", out)
	}

	out, err = runCLI(t, "--content", contentDir, "content", "list")
	if err != nil {
		t.Fatalf("content list: %v", err)
	}
	if !strings.Contains(out, "ui/hud") {
		t.Errorf("content list output missing ui/hud:\n%s", out)
	}

	out, err = runCLI(t, "--content", contentDir, "--poll-interval", "1ms",
		"load", "--quiet", "--load-duration", "5ms", catalogPath, "0", "1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, want := range []string{"group menu loaded", "group forest loaded", "Forest", "hud"} {
		if !strings.Contains(out, want) {
			t.Errorf("load output missing %q:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "--content", contentDir, "content", "remove", "ui/hud"); err != nil {
		t.Fatalf("content remove: %v", err)
	}
}

func TestLoadWithoutContentFailsAddressable(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeTestFile(t, dir, "game.toml", testCatalog)

	_, err := runCLI(t, "--poll-interval", "1ms", "load", "--quiet", "--load-duration", "1ms", catalogPath, "1")
	if err == nil || !strings.Contains(err.Error(), "no addressable store") {
		t.Errorf("load error = %v, want missing addressable store", err)
	}
}

func TestContentRequiresDirectory(t *testing.T) {
	if _, err := runCLI(t, "content", "list"); err == nil || !strings.Contains(err.Error(), "--content") {
		t.Errorf("content list error = %v, want --content required", err)
	}
}
