package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Create copies the live data file into dir before a destructive maintenance
// run. It returns the backup path. Callers must abort their run when this
// fails; mutating without a backup is never acceptable.
func Create(dataPath, dir, label string) (string, error) {
	if _, err := os.Stat(dataPath); err != nil {
		return "", fmt.Errorf("data file %s not found: %w", dataPath, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backups dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(dataPath), filepath.Ext(dataPath))
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	dest := filepath.Join(dir, fmt.Sprintf("%s_%s_backup_%s.db", base, label, stamp))

	if err := copyFile(dataPath, dest); err != nil {
		return "", fmt.Errorf("copying %s to %s: %w", dataPath, dest, err)
	}
	return dest, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
