// Package export copies kept photos out of the app's collection into the
// permanent photo library, behind the platform's permission handshake.
package export

import (
	"context"
	"os"
)

// Status is the answer to a permission query. CanRetry reports whether
// asking again can still change the answer; once it is false a denial is
// terminal until the user intervenes.
type Status struct {
	Granted  bool
	CanRetry bool
}

// PermissionGate is the platform seam for library-write permission.
type PermissionGate interface {
	Query(ctx context.Context) (Status, error)
	Request(ctx context.Context) (bool, error)
}

// DirPermissionGate models permission as writability of the destination
// directory: Query probes it, Request tries to create it.
type DirPermissionGate struct {
	Dir string
}

func (g *DirPermissionGate) Query(ctx context.Context) (Status, error) {
	if err := probeWritable(g.Dir); err != nil {
		return Status{Granted: false, CanRetry: true}, nil
	}
	return Status{Granted: true, CanRetry: true}, nil
}

func (g *DirPermissionGate) Request(ctx context.Context) (bool, error) {
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return false, err
	}
	return probeWritable(g.Dir) == nil, nil
}

func probeWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return os.ErrInvalid
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	probe.Close()
	return os.Remove(probe.Name())
}
