package executor

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Trasher is the OS trash primitive consumed by the executor. Files moved to
// trash remain recoverable by the operator outside this tool.
type Trasher interface {
	// Trash moves the file at path into the OS trash
	Trash(path string) error
}

// XDGTrash implements the freedesktop.org trash layout: the file moves into
// a Trash/files directory and a .trashinfo record is written so desktop
// environments can restore it. Files on the home volume go to the user's
// trash; files on any other volume go to that volume's .Trash-$uid
// directory, keeping the move on one filesystem.
type XDGTrash struct {
	// Root overrides the home trash directory, for tests. Empty means
	// $XDG_DATA_HOME/Trash or ~/.local/share/Trash.
	Root string
}

// Trash moves path into the trash directory for its volume. The move is a
// rename and never a copy, so reclaiming space stays atomic.
func (t *XDGTrash) Trash(path string) error {
	root, err := t.root()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return fmt.Errorf("failed to create trash dir: %w", err)
	}

	same, err := sameDevice(filepath.Dir(path), root)
	if err != nil {
		return fmt.Errorf("failed to probe trash volume: %w", err)
	}
	if !same {
		// A rename cannot cross filesystems; use the trash directory
		// at the top of the file's own volume.
		top, err := volumeTop(path)
		if err != nil {
			return err
		}
		root = filepath.Join(top, fmt.Sprintf(".Trash-%d", os.Getuid()))
	}

	return t.moveInto(root, path)
}

func (t *XDGTrash) moveInto(root, path string) error {
	filesDir := filepath.Join(root, "files")
	infoDir := filepath.Join(root, "info")
	if err := os.MkdirAll(filesDir, 0o700); err != nil {
		return fmt.Errorf("failed to create trash files dir: %w", err)
	}
	if err := os.MkdirAll(infoDir, 0o700); err != nil {
		return fmt.Errorf("failed to create trash info dir: %w", err)
	}

	name := uniqueTrashName(filesDir, filepath.Base(path))

	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escapeTrashPath(path), time.Now().Format("2006-01-02T15:04:05"))
	infoPath := filepath.Join(infoDir, name+".trashinfo")
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return fmt.Errorf("failed to write trash info: %w", err)
	}

	if err := os.Rename(path, filepath.Join(filesDir, name)); err != nil {
		os.Remove(infoPath)
		return fmt.Errorf("failed to move file to trash: %w", err)
	}

	return nil
}

func (t *XDGTrash) root() (string, error) {
	if t.Root != "" {
		return t.Root, nil
	}
	if data := os.Getenv("XDG_DATA_HOME"); data != "" {
		return filepath.Join(data, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

// volumeTop walks up from the file's directory to the mount point of its
// volume: the last ancestor still on the same device.
func volumeTop(path string) (string, error) {
	dir := filepath.Dir(path)
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir, nil
		}
		same, err := sameDevice(dir, parent)
		if err != nil {
			return "", fmt.Errorf("failed to locate volume top: %w", err)
		}
		if !same {
			return dir, nil
		}
		dir = parent
	}
}

// escapeTrashPath percent-encodes the Path value of a .trashinfo record.
// Separators stay literal; only bytes unsafe inside a URL path are escaped,
// so restore dialogs show the real location.
func escapeTrashPath(path string) string {
	return (&url.URL{Path: path}).EscapedPath()
}

// uniqueTrashName avoids clobbering a previously trashed file of the same
// name by appending a numeric suffix.
func uniqueTrashName(dir, base string) string {
	candidate := base
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		ext := filepath.Ext(base)
		candidate = fmt.Sprintf("%s.%d%s", base[:len(base)-len(ext)], i, ext)
	}
}
