package errors

import "go.uber.org/zap"

// ZapHandler is an ErrorHandler that routes reported errors to a zap
// logger. A nil Logger drops everything, which keeps the handler safe to
// install before logging is configured.
type ZapHandler struct {
	Logger *zap.Logger
}

func (h *ZapHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// HandleError logs an Error.
func (h *ZapHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	h.logger().Error("runtime error",
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	)
}

// HandlePanic logs a PanicError.
func (h *ZapHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	h.logger().Error("recovered panic",
		zap.String("op", err.Op),
		zap.Any("value", err.Value),
		zap.String("stack", err.StackTrace),
	)
}

// HandleBuildError logs a BuildError.
func (h *ZapHandler) HandleBuildError(err *BuildError) {
	if err == nil {
		return
	}
	h.logger().Error("widget build failed",
		zap.String("widget", err.Widget),
		zap.String("element", err.Element),
		zap.Any("recovered", err.Recovered),
		zap.Error(err.Err),
	)
}
