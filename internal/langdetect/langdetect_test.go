package langdetect

import (
	"strings"
	"testing"
)

func TestDetectByExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"solution.py", "python"},
		{"main.go", "go"},
		{"lib.rs", "rust"},
		{"App.TSX", "typescript"},
		{"index.js", "javascript"},
		{"Main.java", "java"},
		{"vector.hpp", "cpp"},
		{"util.c", "c"},
		{"script.sh", "bash"},
		{"Program.cs", "csharp"},
	}

	for _, tt := range tests {
		// Content is deliberately misleading; the extension must win.
		if got := Detect(tt.filename, "#include <stdio.h>"); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestDetectByContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bash shebang", "#!/bin/bash\necho hi", "bash"},
		{"python shebang", "#!/usr/bin/env python3\nprint('hi')", "python"},
		{"node shebang", "#!/usr/bin/env node\nconsole.log('hi')", "javascript"},
		{"python import", "import os\n\ndef main():\n    pass", "python"},
		{"python from import", "from collections import deque", "python"},
		{"javascript const", "const x = 42;", "javascript"},
		{"javascript function", "function add(a, b) { return a + b; }", "javascript"},
		{"typescript interface", "interface Point {\n  x: number;\n}", "typescript"},
		{"java class", "public class Solution {\n}", "java"},
		{"cpp include", "#include <vector>\nint main() {}", "cpp"},
		{"cpp namespace", "using namespace std;", "cpp"},
		{"go package", "package main\n\nimport \"fmt\"", "go"},
		{"rust use std", "use std::collections::HashMap;", "rust"},
	}

	for _, tt := range tests {
		if got := Detect("", tt.content); got != tt.want {
			t.Errorf("%s: Detect = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDetectPriorityOrder(t *testing.T) {
	// A bash shebang outranks every later pattern, even when the body
	// looks like javascript.
	content := "#!/bin/bash\nconst x = 1\nfunction f() {}"
	if got := Detect("", content); got != "bash" {
		t.Errorf("Detect = %q, want bash", got)
	}
}

func TestDetectExtensionBeatsContent(t *testing.T) {
	if got := Detect("main.rs", "#!/bin/bash"); got != "rust" {
		t.Errorf("Detect = %q, want rust", got)
	}
}

func TestDetectOnlyFirstTwentyLines(t *testing.T) {
	content := strings.Repeat("nothing to see here\n", 25) + "use std::fmt;"
	if got := Detect("", content); got != DefaultLanguage {
		t.Errorf("Detect = %q, want %q (marker past line 20 must be ignored)", got, DefaultLanguage)
	}
}

func TestDetectDefault(t *testing.T) {
	if got := Detect("", ""); got != DefaultLanguage {
		t.Errorf("Detect(\"\", \"\") = %q, want %q", got, DefaultLanguage)
	}
	if got := Detect("notes.txt", "plain prose, nothing else"); got != DefaultLanguage {
		t.Errorf("Detect = %q, want %q", got, DefaultLanguage)
	}
}
