package dataset

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"syscall"
)

// ContainsPath reports whether candidate resolves to a location equal to or
// nested under root. Both sides are canonicalized (absolute form, symlinks
// followed) before comparison. Malformed or unresolvable input yields
// false, never an error: this gates every caller-supplied relative path.
func ContainsPath(root, candidate string) bool {
	resolvedRoot, err := canonicalize(root)
	if err != nil {
		return false
	}
	resolvedCandidate, err := canonicalize(candidate)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(resolvedRoot, resolvedCandidate)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ResolveWithin joins rel onto root and validates containment, returning
// the absolute target path. The containment check runs before any
// filesystem read of the target. An absolute rel is rejected outright:
// joining would silently reinterpret it as root-relative, while the caller
// meant a path that replaces the root.
func ResolveWithin(root, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", newError(KindPathTraversal, "path escapes dataset root: %s", rel)
	}
	target := filepath.Join(root, rel)
	if !ContainsPath(root, target) {
		return "", newError(KindPathTraversal, "path escapes dataset root: %s", rel)
	}
	return target, nil
}

// canonicalize resolves path to absolute form with symlinks evaluated.
// Nonexistent targets still canonicalize: symlinks are resolved on the
// longest existing ancestor and the remaining suffix is re-joined, so a
// traversal check on a not-yet-created path behaves like one on a real
// path. A path component that turns out to be a regular file (ENOTDIR)
// walks up the same way, so the later stat reports the real failure
// instead of the containment check rejecting it.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	suffix := ""
	cur := abs
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(resolved, suffix), nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs, nil
		}
		suffix = filepath.Join(filepath.Base(cur), suffix)
		cur = parent
	}
}
