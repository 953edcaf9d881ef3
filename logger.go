package dawg

import "github.com/sirupsen/logrus"

// Logger is the minimal logging surface this package needs: a place to
// report errors encountered during implicit, best-effort cleanup (the
// statement finalize after a terminal fetcher, a failed ROLLBACK, closing
// connections in SharedConn.Close or a dropped Pool). No GC finalizer is
// registered: a Stmt that is never finalized, explicitly or by a terminal
// fetcher, is not finalized automatically. It deliberately
// mirrors maragudk/sqlite's logger interface so the same adapter shape
// works for either package.
//
// A nil Logger is never passed around internally; Open and NewPool both
// fall back to a discarding logger when none is supplied.
type Logger interface {
	Println(v ...interface{})
}

// discardLogger is the default Logger: it drops everything.
type discardLogger struct{}

func (discardLogger) Println(v ...interface{}) {}

func logOrDiscard(l Logger) Logger {
	if l == nil {
		return discardLogger{}
	}
	return l
}

// LogrusAdapter adapts a *logrus.Logger (or the package-level logrus
// instance) to the Logger interface, so implicit cleanup errors flow into
// whatever structured-logging pipeline the host application already runs.
type LogrusAdapter struct {
	Log *logrus.Logger
}

// Println implements Logger by forwarding to the wrapped logrus.Logger at
// Warn level, since these are always swallowed errors rather than fatal
// conditions.
func (a LogrusAdapter) Println(v ...interface{}) {
	log := a.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.Warnln(v...)
}
