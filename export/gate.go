package export

import (
	"context"

	"go.uber.org/zap"
)

// Gate mediates the one external side effect of a swipe right: copying a
// photo into the permanent library. Export reports plain success or failure;
// nothing on this path propagates to the reviewer, and the gate never
// retries on its own. Callers invoke it at most once per kept photo.
type Gate struct {
	perms PermissionGate
	lib   Library
	log   *zap.Logger
}

type GateOption func(*Gate)

func WithLogger(log *zap.Logger) GateOption {
	return func(g *Gate) { g.log = log }
}

func NewGate(perms PermissionGate, lib Library, opts ...GateOption) *Gate {
	g := &Gate{
		perms: perms,
		lib:   lib,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Export runs the permission handshake and the copy for uri. True only when
// the copy completed; every failure along the way, including a panic in a
// platform seam, degrades to false.
func (g *Gate) Export(ctx context.Context, uri string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("panic recovered during export",
				zap.Any("error", r),
				zap.String("uri", uri),
			)
			ok = false
		}
	}()

	st, err := g.perms.Query(ctx)
	if err != nil {
		g.log.Warn("library permission query failed", zap.Error(err))
		return false
	}
	if !st.Granted {
		if !st.CanRetry {
			g.log.Info("library permission denied", zap.String("uri", uri))
			return false
		}
		granted, err := g.perms.Request(ctx)
		if err != nil {
			g.log.Warn("library permission request failed", zap.Error(err))
			return false
		}
		if !granted {
			g.log.Info("library permission refused", zap.String("uri", uri))
			return false
		}
	}

	if err := g.lib.Save(ctx, uri); err != nil {
		g.log.Warn("failed to export photo to library",
			zap.Error(err),
			zap.String("uri", uri),
		)
		return false
	}

	g.log.Debug("photo exported to library", zap.String("uri", uri))
	return true
}

// Detach runs Export on its own goroutine with a background context. The
// caller is never blocked on the platform call; the outcome is only logged.
func (g *Gate) Detach(uri string) {
	go g.Export(context.Background(), uri)
}
