package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"ytmp3/internal/logging"
)

const endpointTimeout = 5 * time.Second

func pass(name, format string, args ...any) Result {
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf(format, args...)}
}

func fail(name, format string, args ...any) Result {
	return Result{Name: name, Detail: fmt.Sprintf(format, args...)}
}

// CheckDirectoryAccess passes when path is a directory the current user can
// list, read and create files in.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fail(name, "%s does not exist", path)
	case err != nil:
		return fail(name, "%s: %v", path, err)
	case !info.IsDir():
		return fail(name, "%s is not a directory", path)
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fail(name, "%s is not writable: %v", path, err)
	}
	if avail, err := AvailableBytes(path); err == nil {
		return pass(name, "%s (%s free)", path, logging.FormatBytes(int64(min(avail, math.MaxInt64))))
	}
	return pass(name, "%s", path)
}

// CheckEndpoint issues a HEAD request and passes on any answer below 500.
func CheckEndpoint(ctx context.Context, client *http.Client, name, url string) Result {
	if url = strings.TrimSpace(url); url == "" {
		return fail(name, "missing url")
	}
	if client == nil {
		client = &http.Client{Timeout: endpointTimeout}
	}
	ctx, cancel := context.WithTimeout(ctx, endpointTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fail(name, "bad request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fail(name, "unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fail(name, "%s answered %s", url, resp.Status)
	}
	return pass(name, "%s answered %s", url, resp.Status)
}

// AvailableBytes reports the free space available to unprivileged users on
// the filesystem holding path.
func AvailableBytes(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// EnsureFreeSpace fails when the filesystem holding dir cannot take need bytes.
// A non-positive need always passes since stream sizes are sometimes unknown.
func EnsureFreeSpace(dir string, need int64) error {
	if need <= 0 {
		return nil
	}
	avail, err := AvailableBytes(dir)
	if err != nil {
		return err
	}
	if avail < uint64(need) {
		return fmt.Errorf("insufficient space in %s: need %d bytes, have %d", dir, need, avail)
	}
	return nil
}
