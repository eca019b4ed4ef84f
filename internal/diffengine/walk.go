package diffengine

import (
	"os"
	"path/filepath"

	"github.com/tdepke2/BackupTools/internal/bpath"
)

// checklist is the live set of destination paths seen beneath one
// writePrefix that have not yet been claimed by a matching source entry.
// Keyed by the rendered absolute path so membership tests are cheap; the
// Path value is kept alongside for rendering the eventual deletion.
type checklist map[string]bpath.Path

// buildChecklist recursively lists every entry beneath writePrefix,
// keyed by its own absolute path. A missing writePrefix directory is not
// an error: the directory is created and an empty checklist returned, so
// every entry beneath the (freshly created) prefix is later classified as
// an addition.
func buildChecklist(writePrefix bpath.Path, warn func(string, ...any)) (checklist, error) {
	root := writePrefix.String()
	info, err := os.Lstat(root)
	if err != nil {
		if mkErr := os.MkdirAll(root, 0o755); mkErr != nil {
			return nil, mkErr
		}
		return checklist{}, nil
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "buildChecklist", Path: root, Err: os.ErrInvalid}
	}

	out := checklist{}
	var walk func(abs string, rel bpath.Path)
	walk = func(abs string, rel bpath.Path) {
		entries, err := os.ReadDir(abs)
		if err != nil {
			warn("cannot read directory %q: %v", abs, err)
			return
		}
		for _, entry := range entries {
			childAbs := filepath.Join(abs, entry.Name())
			childRel := rel.Join(bpath.Path{Segments: []string{entry.Name()}})
			childPath := writePrefix.Join(childRel)

			info, err := entry.Info()
			if err != nil {
				warn("cannot stat %q: %v", childAbs, err)
				continue
			}
			if isSpecialFile(info.Mode()) {
				continue
			}
			out[childPath.String()] = childPath
			if info.IsDir() {
				walk(childAbs, childRel)
			}
		}
	}
	walk(root, bpath.Path{})
	return out, nil
}

func isSpecialFile(mode os.FileMode) bool {
	specialBits := os.ModeType &^ os.ModeDir
	return mode&specialBits != 0
}
