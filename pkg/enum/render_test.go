package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{
			name:    "go source with trailing newline",
			file:    "cmd/main.go",
			content: "package main\n",
			want:    "# cmd/main.go\n\n```go\npackage main\n```\n\n",
		},
		{
			name:    "missing trailing newline is added",
			file:    "a.py",
			content: "print(1)",
			want:    "# a.py\n\n```python\nprint(1)\n```\n\n",
		},
		{
			name:    "empty file",
			file:    "empty.txt",
			content: "",
			want:    "# empty.txt\n\n```\n```\n\n",
		},
		{
			name:    "well-known filename",
			file:    "build/Dockerfile",
			content: "FROM scratch\n",
			want:    "# build/Dockerfile\n\n```dockerfile\nFROM scratch\n```\n\n",
		},
		{
			name:    "binary content",
			file:    "lib.so",
			content: "\x7fELF\x00",
			want:    "# lib.so\n\nThis is a binary file of the type: Executable\n\n",
		},
		{
			name:    "invalid utf-8 is replaced",
			file:    "latin1.txt",
			content: "caf\xe9\n",
			want:    "# latin1.txt\n\n```\ncaf�\n```\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.file, []byte(tt.content)))
		})
	}
}

func TestIsBinary(t *testing.T) {
	assert.False(t, IsBinary([]byte("plain text")))
	assert.True(t, IsBinary([]byte{'a', 0, 'b'}))
	assert.False(t, IsBinary(nil))
}

func TestIsGitURL(t *testing.T) {
	assert.True(t, IsGitURL("https://github.com/org/repo.git"))
	assert.True(t, IsGitURL("git@github.com:org/repo"))
	assert.True(t, IsGitURL("ssh://git@example.com/repo"))
	assert.True(t, IsGitURL("git://example.com/repo"))
	assert.True(t, IsGitURL("https://github.com/org/repo"))
	assert.True(t, IsGitURL("https://GitLab.com/group/sub/repo/"))
	assert.True(t, IsGitURL("http://codeberg.org/org/repo"))
	assert.False(t, IsGitURL("https://github.com/"))
	assert.False(t, IsGitURL("https://example.com/org/repo"))
	assert.False(t, IsGitURL("./local/dir"))
	assert.False(t, IsGitURL("/abs/github.com/org/repo"))
}
