// Package langdetect guesses a programming language from a filename
// or a source snippet. It is a best-effort heuristic used only when
// the user has not stored an explicit language preference.
package langdetect

import (
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultLanguage is returned when neither the filename nor the
// content yields a match.
const DefaultLanguage = "python"

// Extension lookup runs before any content sniffing.
var extLanguages = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".cxx":   "cpp",
	".hpp":   "cpp",
	".go":    "go",
	".rs":    "rust",
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".cs":    "csharp",
	".sh":    "bash",
}

type contentPattern struct {
	re   *regexp.Regexp
	lang string
}

// Ordered by priority: the first matching pattern wins. Callers rely
// on this exact ordering (a bash shebang beats a later "const x =").
var contentPatterns = []contentPattern{
	{regexp.MustCompile(`(?m)^#!.*\b(?:bash|sh)\b`), "bash"},
	{regexp.MustCompile(`(?m)^#!.*\bpython[0-9.]*\b`), "python"},
	{regexp.MustCompile(`(?m)^#!.*\bnode\b`), "javascript"},
	{regexp.MustCompile(`(?m)^\s*(?:import\s+[A-Za-z_][\w.]*\s*$|from\s+[A-Za-z_][\w.]*\s+import\b)`), "python"},
	{regexp.MustCompile(`\b(?:function\s+\w+\s*\(|const\s+\w+\s*=|let\s+\w+\s*=)`), "javascript"},
	{regexp.MustCompile(`\binterface\s+\w+\s*\{`), "typescript"},
	{regexp.MustCompile(`\b(?:public\s+class|class)\s+\w+`), "java"},
	{regexp.MustCompile(`(?m)^\s*#include\b|\busing\s+namespace\s+\w+`), "cpp"},
	{regexp.MustCompile(`(?m)^package\s+main\b|\bfunc\s+\w+\s*\(`), "go"},
	{regexp.MustCompile(`\bfn\s+\w+\s*\(|\buse\s+std::`), "rust"},
}

// Detect returns the language name for the given filename and/or
// content. Either argument may be empty. The extension table is
// consulted first, then the content patterns against the first 20
// lines, then DefaultLanguage.
func Detect(filename, content string) string {
	if filename != "" {
		ext := strings.ToLower(filepath.Ext(filename))
		if lang, ok := extLanguages[ext]; ok {
			return lang
		}
	}

	if content != "" {
		head := firstLines(content, 20)
		for _, p := range contentPatterns {
			if p.re.MatchString(head) {
				return p.lang
			}
		}
	}

	return DefaultLanguage
}

func firstLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
