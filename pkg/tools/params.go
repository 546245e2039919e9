package tools

const (
	descGetCodebaseSize = `Reports the size of the codebase before it is retrieved: estimated token counts per model family, ` +
		`the largest files, and warnings when a context budget is exceeded. Call this before get_codebase.`
	descGetCodebase = `Returns the codebase as a Markdown digest, one page at a time. Start with page 1 and keep ` +
		`requesting the page number the response names until it says the codebase is complete.`
	descReadFile          = `Reads and returns the content of a file.`
	descReadMultipleFiles = `Reads several files at once. A file that cannot be read is reported inline without failing the call.`
	descWriteFile         = `Writes content to a file, overwriting it if it exists. Missing parent directories are created.`
	descEditFile          = `Applies exact text replacements to a file. Each oldText must occur exactly once in the file.`
	descCreateDirectory   = `Creates a directory, including any missing parents. Succeeds if the directory already exists.`
	descListDirectory     = `Lists the entries directly inside a directory, marking each as [DIR] or [FILE].`
	descDirectoryTree     = `Shows the directory hierarchy below a path as a tree, honouring the project's ignore rules.`
	descMoveFile          = `Moves or renames a file or directory. Fails if the destination already exists.`
	descDeleteFile        = `Deletes a file. Directories are deleted only when recursive is set.`
	descGetFileInfo       = `Returns metadata about a file or directory: type, size, permissions and modification time.`
	descSearchFiles       = `Searches file contents line by line with a regular expression, or for any of a set of literal strings. ` +
		`Ignored and binary files are skipped. Results are printed as path:line: text.`
	descExecuteCommand = `Runs a command inside the root directory. The command line is split into words and executed ` +
		`directly, without a shell, so pipes and redirections are not available.`
)

type GetCodebaseSizeParams struct {
	Path string `json:"path,omitempty" jsonschema:"Subdirectory to measure, relative to the root. Defaults to the root."`
}

type GetCodebaseParams struct {
	Page *int   `json:"page,omitempty" jsonschema:"Page number to return, starting at 1. Defaults to 1."`
	Path string `json:"path,omitempty" jsonschema:"Subdirectory to digest, relative to the root. Defaults to the root."`
}

type ReadFileParams struct {
	Path string `json:"path" jsonschema:"Path of the file to read, relative to the root."`
}

type ReadMultipleFilesParams struct {
	Paths []string `json:"paths" jsonschema:"Paths of the files to read, relative to the root."`
}

type WriteFileParams struct {
	Path    string `json:"path" jsonschema:"Path of the file to write, relative to the root."`
	Content string `json:"content" jsonschema:"The content to write into the file."`
}

type EditOperation struct {
	OldText string `json:"oldText" jsonschema:"Text to replace. It must occur exactly once."`
	NewText string `json:"newText" jsonschema:"Replacement text."`
}

type EditFileParams struct {
	Path   string          `json:"path" jsonschema:"Path of the file to edit, relative to the root."`
	Edits  []EditOperation `json:"edits" jsonschema:"Replacements applied in order."`
	DryRun bool            `json:"dryRun,omitempty" jsonschema:"Check that every edit applies without writing the file."`
}

type CreateDirectoryParams struct {
	Path string `json:"path" jsonschema:"Path of the directory to create, relative to the root."`
}

type ListDirectoryParams struct {
	Path string `json:"path,omitempty" jsonschema:"Directory to list, relative to the root. Defaults to the root."`
}

type DirectoryTreeParams struct {
	Path     string `json:"path,omitempty" jsonschema:"Directory to start from, relative to the root. Defaults to the root."`
	MaxDepth int    `json:"maxDepth,omitempty" jsonschema:"Maximum depth to descend. Zero means unlimited."`
}

type MoveFileParams struct {
	Source      string `json:"source" jsonschema:"Path to move, relative to the root."`
	Destination string `json:"destination" jsonschema:"New path, relative to the root."`
}

type DeleteFileParams struct {
	Path      string `json:"path" jsonschema:"Path to delete, relative to the root."`
	Recursive bool   `json:"recursive,omitempty" jsonschema:"Delete a directory and everything below it."`
}

type GetFileInfoParams struct {
	Path string `json:"path" jsonschema:"Path to inspect, relative to the root."`
}

type SearchFilesParams struct {
	Pattern    string   `json:"pattern,omitempty" jsonschema:"Regular expression matched against each line."`
	Literals   []string `json:"literals,omitempty" jsonschema:"Literal strings; a line matches when it contains any of them. Used instead of pattern."`
	Path       string   `json:"path,omitempty" jsonschema:"Directory to search, relative to the root. Defaults to the root."`
	Include    string   `json:"include,omitempty" jsonschema:"Glob matched against file names, for example *.go."`
	IgnoreCase bool     `json:"ignoreCase,omitempty" jsonschema:"Match without regard to case."`
	MaxResults int      `json:"maxResults,omitempty" jsonschema:"Maximum number of matching lines to return. Defaults to 200."`
}

type ExecuteCommandParams struct {
	Command        string `json:"command" jsonschema:"Command line to run, for example: go test ./..."`
	Directory      string `json:"directory,omitempty" jsonschema:"Working directory relative to the root. Defaults to the root."`
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty" jsonschema:"Timeout in seconds. Capped by the server's configured limit."`
}
