package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smazurov/blinknode/internal/page"
	"github.com/smazurov/blinknode/internal/version"
)

const validTemplate = `<html>$LED2_STATUS $LED4_STATUS $LED16_STATUS $BLINK_STATUS $ROTATE_STATUS $SYSTEM_INFO</html>`

func executeValidate(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := CreateValidateTemplateCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidateTemplate_Valid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, page.DefaultTemplate), []byte(validTemplate), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := executeValidate(t, "-d", dir)
	if err != nil {
		t.Fatalf("validate-template error = %v", err)
	}
	for _, phrase := range []string{"Template is valid!", dir, "Placeholders: 6"} {
		if !strings.Contains(out, phrase) {
			t.Errorf("output missing %q:\n%s", phrase, out)
		}
	}
}

func TestValidateTemplate_CustomName(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "panel.html"), []byte(validTemplate), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := executeValidate(t, "-d", dir, "-t", "panel.html"); err != nil {
		t.Fatalf("validate-template error = %v", err)
	}
}

func TestValidateTemplate_MissingTokens(t *testing.T) {
	dir := t.TempDir()
	raw := strings.ReplaceAll(validTemplate, "$ROTATE_STATUS", "")
	raw = strings.ReplaceAll(raw, "$SYSTEM_INFO", "")
	if err := os.WriteFile(filepath.Join(dir, page.DefaultTemplate), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	_, errOut, err := executeValidate(t, "-d", dir)
	if err == nil {
		t.Fatal("expected an error for a template without placeholders")
	}
	for _, tok := range []string{"$ROTATE_STATUS", "$SYSTEM_INFO"} {
		if !strings.Contains(errOut, tok) {
			t.Errorf("stderr missing %s:\n%s", tok, errOut)
		}
	}
	if strings.Contains(errOut, "$LED2_STATUS") {
		t.Errorf("stderr lists a placeholder that is present:\n%s", errOut)
	}
}

func TestValidateTemplate_MissingFile(t *testing.T) {
	_, _, err := executeValidate(t, "-d", t.TempDir())
	if err == nil {
		t.Fatal("expected an error for a missing template")
	}
	if !strings.Contains(err.Error(), page.DefaultTemplate) {
		t.Errorf("error %q should name the template", err)
	}
}

func TestVersionCmd(t *testing.T) {
	old := version.Version
	version.Version = "v9.9.9"
	defer func() { version.Version = old }()

	cmd := CreateVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "blinknode v9.9.9") {
		t.Errorf("output = %q", out.String())
	}

	cmd = CreateVersionCmd()
	out.Reset()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--json"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	var info version.Info
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out.String())
	}
	if info.Version != "v9.9.9" {
		t.Errorf("Version = %q", info.Version)
	}
}
