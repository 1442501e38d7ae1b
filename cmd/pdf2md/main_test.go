package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdf2md/internal/pdftest"
)

func writePDF(t *testing.T, dir string) string {
	t.Helper()
	data := pdftest.New().
		Info("Title", "Greeting").
		Page(pdftest.Text(pdftest.Regular, 24, 72, 700, "HELLO") +
			pdftest.Text(pdftest.Regular, 12, 72, 670, "This is body text.")).
		Bytes()
	path := filepath.Join(dir, "hello.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestConvertToMarkdown(t *testing.T) {
	dir := t.TempDir()
	in := writePDF(t, dir)
	out := filepath.Join(dir, "nested", "hello.md")

	code, stdout, stderr := runCLI(t, "-i", in, "-o", out)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "# HELLO\n\nThis is body text.\n", string(got))
}

func TestFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	in := writePDF(t, dir)
	out := filepath.Join(dir, "hello.html")

	code, _, stderr := runCLI(t, "-i", in, "-o", out)
	require.Equal(t, 0, code, stderr)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "<!DOCTYPE html>"))
	assert.Contains(t, string(got), "<h1>HELLO</h1>")
}

func TestExplicitFormatAndFrontMatter(t *testing.T) {
	dir := t.TempDir()
	in := writePDF(t, dir)
	md := filepath.Join(dir, "fm.md")
	code, _, stderr := runCLI(t, "-i", in, "-o", md, "--front-matter", "--workers", "2")
	require.Equal(t, 0, code, stderr)
	got, err := os.ReadFile(md)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "---\ntitle: Greeting\n"))

	txt := filepath.Join(dir, "plain.out")
	code, _, stderr = runCLI(t, "-i", in, "-o", txt, "--format", "text")
	require.Equal(t, 0, code, stderr)
	got, err = os.ReadFile(txt)
	require.NoError(t, err)
	assert.Equal(t, "HELLO\n\nThis is body text.\n", string(got))
}

func TestDryRun(t *testing.T) {
	dir := t.TempDir()
	in := writePDF(t, dir)

	code, stdout, stderr := runCLI(t, "-i", in, "-n")
	require.Equal(t, 0, code, stderr)
	want := "\n=== PDF Preview ===\n" +
		"Pages: 1\n" +
		"Title: Greeting\n" +
		"Has extractable text: Yes\n" +
		"\nDetected sections:\n" +
		"  • HELLO\n" +
		"\n=== End Preview ===\n\n"
	assert.Equal(t, want, stdout)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestVerboseLogsProgress(t *testing.T) {
	dir := t.TempDir()
	in := writePDF(t, dir)
	code, _, stderr := runCLI(t, "-i", in, "-o", filepath.Join(dir, "x.md"), "-v")
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, "level=INFO")
	assert.Contains(t, stderr, "wrote output")
}

func TestExitCodes(t *testing.T) {
	dir := t.TempDir()
	in := writePDF(t, dir)
	fake := filepath.Join(dir, "fake.pdf")
	require.NoError(t, os.WriteFile(fake, []byte("hello world"), 0o644))
	notPDF := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notPDF, []byte("%PDF-1.4"), 0o644))
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	broken := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(broken, []byte("%PDF-1.4\n%%EOF\n"), 0o644))

	tests := []struct {
		name    string
		args    []string
		code    int
		message string
	}{
		{"no input", []string{"-o", "x.md"}, 1, "input file is required"},
		{"missing input", []string{"-i", filepath.Join(dir, "nope.pdf"), "-o", "x.md"}, 1, "does not exist"},
		{"wrong extension", []string{"-i", notPDF, "-o", "x.md"}, 1, ".pdf extension"},
		{"no output", []string{"-i", in}, 1, "output file is required"},
		{"bad format", []string{"-i", in, "-o", "x.md", "--format", "docx"}, 1, "unknown output format"},
		{"not a pdf", []string{"-i", fake, "-o", "x.md"}, 1, "not a PDF file"},
		{"unwritable output", []string{"-i", in, "-o", filepath.Join(blocker, "x.md")}, 2, "write"},
		{"corrupt pdf", []string{"-i", broken, "-o", "x.md"}, 4, "corrupt PDF structure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			assert.Equal(t, tt.code, code)
			assert.Empty(t, stdout)
			assert.True(t, strings.HasPrefix(stderr, "Error: "), stderr)
			assert.Contains(t, stderr, tt.message)
		})
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writePDF(t, dir)
	out := filepath.Join(dir, "from-config.txt")
	cfg := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("input: "+in+"\noutput: "+out+"\n"), 0o644))

	code, _, stderr := runCLI(t, "--config", cfg)
	require.Equal(t, 0, code, stderr)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "HELLO\n\nThis is body text.\n", string(got))
}

func TestEnvironment(t *testing.T) {
	dir := t.TempDir()
	in := writePDF(t, dir)
	out := filepath.Join(dir, "env.md")
	t.Setenv("PDF2MD_INPUT", in)
	t.Setenv("PDF2MD_OUTPUT", out)

	code, _, stderr := runCLI(t)
	require.Equal(t, 0, code, stderr)
	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "pdf2md dev\n", stdout)
}
