package locator

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// extLanguages maps common file extensions to highlight language names.
var extLanguages = map[string]string{
	".go":    "go",
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".tsx":   "tsx",
	".jsx":   "jsx",
	".rs":    "rust",
	".rb":    "ruby",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".sh":    "bash",
	".bash":  "bash",
	".zsh":   "bash",
	".sql":   "sql",
	".html":  "html",
	".css":   "css",
	".scss":  "scss",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".xml":   "xml",
	".md":    "markdown",
	".lua":   "lua",
	".pl":    "perl",
	".ex":    "elixir",
	".exs":   "elixir",
	".hs":    "haskell",
	".proto": "protobuf",
	".tf":    "terraform",
}

// specialFiles maps well-known extensionless filenames to languages.
var specialFiles = map[string]string{
	"dockerfile": "docker",
	"makefile":   "makefile",
	"gemfile":    "ruby",
	"rakefile":   "ruby",
	"go.mod":     "gomod",
}

// Language guesses the highlight language for a display name, falling
// back to chroma's own filename matching and finally to plain text.
func Language(name string) string {
	if lang, ok := extLanguages[strings.ToLower(filepath.Ext(name))]; ok {
		return lang
	}
	if lang, ok := specialFiles[strings.ToLower(name)]; ok {
		return lang
	}
	if lexer := lexers.Match(name); lexer != nil {
		return lexer.Config().Name
	}
	return "text"
}
