package locator

import (
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , , ", nil},
		{"a.ts", []string{"a.ts"}},
		{"a.ts,b.ts", []string{"a.ts", "b.ts"}},
		{" a.ts , b.ts ,", []string{"a.ts", "b.ts"}},
	}
	for _, tt := range tests {
		got := Split(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("Split(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Split(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestValidate(t *testing.T) {
	valid := []string{
		"main.go",
		"repo/src/main.go",
		"https://raw.githubusercontent.com/u/r/main/a.ts",
		"http://example.com/x.py",
	}
	for _, raw := range valid {
		if err := Validate(raw); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", raw, err)
		}
	}

	invalid := []string{
		"",
		"has space.go",
		"tab\there.go",
		"<script>.js",
		`quote".go`,
		"back\\slash.go",
		"javascript:alert(1)",
		"ftp://example.com/a.go",
		"file:///etc/passwd",
	}
	for _, raw := range invalid {
		if err := Validate(raw); err == nil {
			t.Errorf("Validate(%q) = nil, want error", raw)
		}
	}
}

func TestParseRelative(t *testing.T) {
	ref := Parse("repoA/src/main.go", "https://src.test/raw")
	if ref.Err != nil {
		t.Fatalf("Parse: %v", ref.Err)
	}
	if ref.URL != "https://src.test/raw/repoA/src/main.go" {
		t.Errorf("URL = %q", ref.URL)
	}
	if ref.DisplayName != "main.go" {
		t.Errorf("DisplayName = %q", ref.DisplayName)
	}
}

func TestParseAbsolute(t *testing.T) {
	ref := Parse("https://example.com/lib/util.ts", "https://src.test")
	if ref.Err != nil {
		t.Fatalf("Parse: %v", ref.Err)
	}
	if ref.URL != "https://example.com/lib/util.ts" {
		t.Errorf("absolute locator must not resolve against the base: %q", ref.URL)
	}
	if ref.DisplayName != "util.ts" {
		t.Errorf("DisplayName = %q", ref.DisplayName)
	}
}

func TestParseNoFileComponent(t *testing.T) {
	for _, raw := range []string{"repoA/", "https://example.com/dir/"} {
		ref := Parse(raw, "https://src.test")
		if ref.Err == nil {
			t.Errorf("Parse(%q): expected decomposition error", raw)
		}
		if ref.Err != nil && !strings.Contains(ref.Err.Error(), "no file component") {
			t.Errorf("Parse(%q): %v", raw, ref.Err)
		}
	}
}

func TestLanguage(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"main.go", "go"},
		{"app.ts", "typescript"},
		{"script.PY", "python"},
		{"README.md", "markdown"},
		{"Dockerfile", "docker"},
		{"Makefile", "makefile"},
		{"go.mod", "gomod"},
		{"unknown.zzz", "text"},
	}
	for _, tt := range tests {
		if got := Language(tt.name); got != tt.want {
			t.Errorf("Language(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
