package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"rolodex/internal/config"
)

// minFreeBytes is the floor below which the data directory is considered
// too full for another batch.
const minFreeBytes = 64 << 20

// CheckDataDir verifies the data directory exists, is writable, and has
// disk headroom for the ledger and logs.
func CheckDataDir(cfg *config.Config) Result {
	const name = "Data directory"
	path := cfg.Paths.DataDir

	if err := cfg.EnsureDirectories(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: only %d MiB free)", path, free>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok, %d MiB free)", path, free>>20)}
}
