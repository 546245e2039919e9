package enum

import (
	"bytes"
	"path"
	"strings"
	"unicode/utf8"
)

// Render converts a file into its digest form: a heading with the file name
// followed by a fenced code block, or a one-line note for binary files.
func Render(name string, content []byte) string {
	if IsBinary(content) {
		return "# " + name + "\n\nThis is a binary file of the type: " + binaryKind(name) + "\n\n"
	}

	body := string(content)
	if !utf8.ValidString(body) {
		body = strings.ToValidUTF8(body, "�")
	}

	var b strings.Builder
	b.Grow(len(body) + len(name) + 32)
	b.WriteString("# ")
	b.WriteString(name)
	b.WriteString("\n\n```")
	b.WriteString(languageFor(name))
	b.WriteString("\n")
	b.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n\n")
	return b.String()
}

// IsBinary detects if content is binary by checking first 8KB for null bytes.
func IsBinary(content []byte) bool {
	checkSize := len(content)
	if checkSize > 8192 {
		checkSize = 8192
	}
	return bytes.IndexByte(content[:checkSize], 0) != -1
}

var languages = map[string]string{
	".go":     "go",
	".ts":     "typescript",
	".tsx":    "tsx",
	".js":     "javascript",
	".jsx":    "jsx",
	".mjs":    "javascript",
	".cjs":    "javascript",
	".json":   "json",
	".py":     "python",
	".rb":     "ruby",
	".rs":     "rust",
	".java":   "java",
	".kt":     "kotlin",
	".swift":  "swift",
	".c":      "c",
	".h":      "c",
	".cpp":    "cpp",
	".hpp":    "cpp",
	".cs":     "csharp",
	".php":    "php",
	".sh":     "bash",
	".bash":   "bash",
	".zsh":    "zsh",
	".ps1":    "powershell",
	".sql":    "sql",
	".html":   "html",
	".css":    "css",
	".scss":   "scss",
	".svelte": "svelte",
	".vue":    "vue",
	".md":     "markdown",
	".yaml":   "yaml",
	".yml":    "yaml",
	".toml":   "toml",
	".xml":    "xml",
	".proto":  "protobuf",
	".tf":     "hcl",
	".lua":    "lua",
	".dart":   "dart",
	".scala":  "scala",
}

func languageFor(name string) string {
	base := path.Base(name)
	switch base {
	case "Dockerfile":
		return "dockerfile"
	case "Makefile":
		return "makefile"
	}
	return languages[strings.ToLower(path.Ext(base))]
}

func binaryKind(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".webp", ".tiff":
		return "Image"
	case ".mp3", ".wav", ".ogg", ".flac", ".aac":
		return "Audio"
	case ".mp4", ".mov", ".avi", ".mkv", ".webm":
		return "Video"
	case ".zip", ".tar", ".gz", ".tgz", ".bz2", ".xz", ".7z", ".rar", ".jar":
		return "Archive"
	case ".woff", ".woff2", ".ttf", ".otf", ".eot":
		return "Font"
	case ".exe", ".dll", ".so", ".dylib", ".bin", ".o", ".a", ".wasm":
		return "Executable"
	case ".pdf":
		return "PDF"
	case ".sqlite", ".db":
		return "Database"
	}
	return "Binary"
}
