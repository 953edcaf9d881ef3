package dawg

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool is the bounded, FIFO-fair connection Pool (C12): up to max live
// Connections, opened lazily and reused across callers. Fairness for
// blocked waiters comes straight from golang.org/x/sync/semaphore.Weighted,
// which queues and wakes Acquire callers in arrival order rather than
// letting a newly-arrived goroutine cut ahead of one already parked — a
// hand-rolled channel-of-waiters would need to reimplement exactly that.
type Pool struct {
	filename string
	mode     OpenMode
	logger   Logger
	max      int64

	sem *semaphore.Weighted

	mu     sync.Mutex
	free   []*Conn
	closed bool
}

// DefaultMaxPoolSize is PoolOptions.MaxPoolSize's value when left at zero.
const DefaultMaxPoolSize = 20

// PoolOptions configures NewPool (§6's OpenMode, plus the pool's own
// capacity and logger). This, alongside OpenMode, is the entire
// configuration surface of the package — deliberately a plain struct
// rather than a functional-options or flag-parsing surface; see DESIGN.md.
type PoolOptions struct {
	Mode        OpenMode
	MaxPoolSize int
	Logger      Logger
}

// NewPool creates a Pool over filename, bounding it to opts.MaxPoolSize
// simultaneously open connections (DefaultMaxPoolSize if unset). No
// connection is actually opened until first Acquire.
func NewPool(filename string, opts PoolOptions) *Pool {
	max := opts.MaxPoolSize
	if max <= 0 {
		max = DefaultMaxPoolSize
	}
	return &Pool{
		filename: filename,
		mode:     opts.Mode,
		logger:   logOrDiscard(opts.Logger),
		max:      int64(max),
		sem:      semaphore.NewWeighted(int64(max)),
	}
}

// PooledConn is a Connection borrowed from a Pool. It must be returned with
// Release exactly once; failing to do so leaks one slot of the pool's
// capacity for the life of the process.
type PooledConn struct {
	pool *Pool
	conn *Conn
}

// Acquire blocks until a connection is available or ctx is done, per §3's
// acquire(block) entry point. Waiters are served in arrival order (P-WIN
// in spec terms: first blocked, first served). A free, previously-used
// connection is handed back before a new one is opened, and a new one is
// opened only while the pool is below its max.
func (p *Pool) Acquire(ctx context.Context) (*PooledConn, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, wrapCause(err, "dawg: pool acquire")
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.sem.Release(1)
		return nil, newErr(KindPoolClosed, "pool is closed")
	}
	n := len(p.free)
	if n > 0 {
		c := p.free[n-1]
		p.free = p.free[:n-1]
		p.mu.Unlock()
		return &PooledConn{pool: p, conn: c}, nil
	}
	p.mu.Unlock()

	c, err := Open(p.filename, p.mode, p.logger)
	if err != nil {
		p.sem.Release(1)
		return nil, err
	}
	return &PooledConn{pool: p, conn: c}, nil
}

// TryAcquire is the non-blocking counterpart to Acquire: it returns
// (nil, false) immediately if the pool is at capacity rather than waiting.
func (p *Pool) TryAcquire() (*PooledConn, bool) {
	if !p.sem.TryAcquire(1) {
		return nil, false
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.sem.Release(1)
		return nil, false
	}
	n := len(p.free)
	if n > 0 {
		c := p.free[n-1]
		p.free = p.free[:n-1]
		p.mu.Unlock()
		return &PooledConn{pool: p, conn: c}, true
	}
	p.mu.Unlock()

	c, err := Open(p.filename, p.mode, p.logger)
	if err != nil {
		p.sem.Release(1)
		return nil, false
	}
	return &PooledConn{pool: p, conn: c}, true
}

// Release returns pc's connection to the pool, making it available to the
// next waiter (or the next Acquire/TryAcquire call) ahead of opening a
// fresh connection. Calling Release more than once on the same PooledConn
// is a programmer error and is not guarded against, mirroring the
// finalize-once discipline elsewhere in this package: there is no handle
// left to call it on a second time if the caller discards pc after the
// first Release.
func (pc *PooledConn) Release() {
	p := pc.pool
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		if err := pc.conn.Close(); err != nil {
			p.logger.Println("dawg: pool: closing dropped connection:", err)
		}
		p.sem.Release(1)
		return
	}
	p.free = append(p.free, pc.conn)
	p.mu.Unlock()
	p.sem.Release(1)
}

// Conn exposes the borrowed Connection for callers that need the full
// single-thread surface, including Transaction.
func (pc *PooledConn) Conn() *Conn { return pc.conn }

// Run runs q against the borrowed connection.
func (pc *PooledConn) Run(q Query) (RunResult, error) { return pc.conn.Run(q) }

// Execute executes q against the borrowed connection.
func (pc *PooledConn) Execute(q Query) error { return pc.conn.Execute(q) }

// FetchAll fetches every row of q against the borrowed connection.
func (pc *PooledConn) FetchAll(q Query) ([]Row, error) { return pc.conn.FetchAll(q) }

// FetchOne fetches exactly one row of q against the borrowed connection.
func (pc *PooledConn) FetchOne(q Query) (Row, error) { return pc.conn.FetchOne(q) }

// FetchOptional fetches zero or one row of q against the borrowed connection.
func (pc *PooledConn) FetchOptional(q Query) (*Row, error) { return pc.conn.FetchOptional(q) }

// Preparing prepares q against the borrowed connection for manual stepping.
func (pc *PooledConn) Preparing(q Query) (*Stmt, error) { return pc.conn.Preparing(q) }

// Transaction runs fn inside a transaction against the borrowed connection.
func (pc *PooledConn) Transaction(kind TxKind, fn func(*Tx) error) error {
	return pc.conn.Transaction(kind, fn)
}

// Drop closes every currently-free connection and marks the pool closed:
// subsequent Acquire/TryAcquire calls fail with pool-closed, and any
// connection still checked out is closed (instead of recycled) on its next
// Release rather than being reached into directly, since Pool does not
// track which PooledConns are outstanding.
func (p *Pool) Drop() error {
	p.mu.Lock()
	p.closed = true
	free := p.free
	p.free = nil
	p.mu.Unlock()

	var firstErr error
	for _, c := range free {
		if err := c.Close(); err != nil {
			p.logger.Println("dawg: pool drop: closing connection:", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
