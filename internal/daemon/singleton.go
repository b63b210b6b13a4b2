// Package daemon guards the data root against concurrent objdb serve
// processes. Adapted from the teacher's internal/daemon/singleton.go, which
// enforced a single running background daemon per named resource via
// gofrs/flock; here the guarded resource is the on-disk data directory
// itself rather than a Unix socket.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".objdb.lock"

// DataDirGuard enforces that only one objdb serve process at a time holds a
// given data directory, the process-level analogue of spec.md §5's
// non-blocking mutex contract.
type DataDirGuard struct {
	dataDir string
	lock    *flock.Flock
}

// NewDataDirGuard builds a guard over dataDir. The lock file lives inside
// dataDir itself so rebuilding the registry from that same directory (see
// objdb.BuildRegistryFromDir) never mistakes it for a database.
func NewDataDirGuard(dataDir string) *DataDirGuard {
	return &DataDirGuard{dataDir: dataDir}
}

// Acquire attempts to become the sole owner of the data directory. Returns
// (true, nil) if this process won and should continue serving, (false, nil)
// if another process already holds it, and (false, err) on a genuine I/O
// failure.
func (g *DataDirGuard) Acquire() (bool, error) {
	if err := os.MkdirAll(g.dataDir, 0o755); err != nil {
		return false, fmt.Errorf("objdb: daemon: creating data dir %s: %w", g.dataDir, err)
	}
	lockPath := filepath.Join(g.dataDir, lockFileName)
	g.lock = flock.New(lockPath)

	locked, err := g.lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("objdb: daemon: acquiring data dir lock %s: %w", lockPath, err)
	}
	return locked, nil
}

// Release releases the data directory lock, called on shutdown.
func (g *DataDirGuard) Release() error {
	if g.lock == nil {
		return nil
	}
	return g.lock.Unlock()
}
