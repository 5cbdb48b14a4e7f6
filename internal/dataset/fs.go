package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileFormat tags how a file's content was interpreted.
type FileFormat string

const (
	FormatJSON FileFormat = "json"
	FormatText FileFormat = "text"
)

// FileContent is the result of reading one file within the dataset.
type FileContent struct {
	RelPath string         `json:"file_path"`
	Path    string         `json:"full_path"`
	Format  FileFormat     `json:"type"`
	JSON    map[string]any `json:"content_json,omitempty"`
	Text    string         `json:"content,omitempty"`
}

// ReadFileEntry reads a file at a caller-supplied path relative to the
// dataset root. The containment check runs first; a path that escapes the
// root is rejected without opening anything. Files with a .json extension
// are parsed as structured content, everything else is returned as text.
func ReadFileEntry(root, rel string) (FileContent, error) {
	target, err := ResolveWithin(root, rel)
	if err != nil {
		return FileContent{}, err
	}

	fi, err := os.Stat(target)
	if err != nil {
		return FileContent{}, fromOSError(err, target)
	}
	if fi.IsDir() {
		return FileContent{}, newError(KindNotAFile, "path is not a file: %s", target)
	}

	content := FileContent{RelPath: rel, Path: target}
	if filepath.Ext(target) == ".json" {
		parsed, err := ReadJSON(target)
		if err != nil {
			return FileContent{}, err
		}
		content.Format = FormatJSON
		content.JSON = parsed
		return content, nil
	}

	text, err := ReadText(target)
	if err != nil {
		return FileContent{}, err
	}
	content.Format = FormatText
	content.Text = text
	return content, nil
}

// EntryKind distinguishes files from directories in listings.
type EntryKind string

const (
	EntryFile      EntryKind = "file"
	EntryDirectory EntryKind = "directory"
)

// DirEntry is one entry of a directory listing.
type DirEntry struct {
	Name    string    `json:"name"`
	Kind    EntryKind `json:"type"`
	RelPath string    `json:"path"`
}

// ListDirectory lists a subdirectory of the dataset root, sorted by
// (kind, name) for deterministic output. The containment check runs before
// the directory is opened.
func ListDirectory(root, rel string) ([]DirEntry, error) {
	target, err := ResolveWithin(root, rel)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return nil, fromOSError(err, target)
	}

	items := make([]DirEntry, 0, len(entries))
	for _, entry := range entries {
		kind := EntryFile
		if entry.IsDir() {
			kind = EntryDirectory
		}
		items = append(items, DirEntry{
			Name:    entry.Name(),
			Kind:    kind,
			RelPath: filepath.ToSlash(filepath.Join(rel, entry.Name())),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Kind != items[j].Kind {
			return items[i].Kind < items[j].Kind
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// excludedTreeDirs are skipped during tree walks alongside dot-prefixed
// names: version-control and dependency-cache directories dwarf the
// dataset content and carry no dataset meaning.
var excludedTreeDirs = map[string]struct{}{
	".git":         {},
	"__pycache__":  {},
	"node_modules": {},
}

// TreeNode is one node of a bounded directory tree.
type TreeNode struct {
	Name      string      `json:"name"`
	Kind      EntryKind   `json:"type"`
	Children  []*TreeNode `json:"children,omitempty"`
	Count     int         `json:"count,omitempty"`
	Truncated bool        `json:"truncated,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// Tree walks the dataset root to maxDepth levels (the root sits at depth
// 0, so maxDepth 0 yields only a truncated root node). Permission failures
// on a subdirectory are recorded on that branch and the walk continues.
func Tree(root string, maxDepth int) (*TreeNode, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fromOSError(err, root)
	}
	if !fi.IsDir() {
		return nil, newError(KindNotFound, "dataset root is not a directory: %s", root)
	}
	return buildTree(root, filepath.Base(root), 0, maxDepth), nil
}

func buildTree(path, name string, depth, maxDepth int) *TreeNode {
	node := &TreeNode{Name: name, Kind: EntryDirectory}
	fi, err := os.Stat(path)
	if err != nil {
		node.Error = err.Error()
		return node
	}
	if !fi.IsDir() {
		node.Kind = EntryFile
		return node
	}

	if depth >= maxDepth {
		node.Truncated = true
		return node
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		node.Error = err.Error()
		return node
	}

	children := make([]*TreeNode, 0, len(entries))
	for _, entry := range entries {
		entryName := entry.Name()
		if strings.HasPrefix(entryName, ".") {
			continue
		}
		if _, excluded := excludedTreeDirs[entryName]; excluded {
			continue
		}
		children = append(children, buildTree(filepath.Join(path, entryName), entryName, depth+1, maxDepth))
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	node.Children = children
	node.Count = len(children)
	return node
}
