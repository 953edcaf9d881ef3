package dawg

// Conn is the single-thread Connection (C9): an owned engine handle plus a
// thin, allocation-light API over it. A Conn is not safe for concurrent
// use from more than one goroutine — that guarantee is what SharedConn and
// Pool each add on top of it in their own way.
type Conn struct {
	c        *conn
	logger   Logger
	borrowed bool
}

// Open opens filename under mode and returns a single-thread Connection. A
// nil logger falls back to a discarding one.
func Open(filename string, mode OpenMode, logger Logger) (*Conn, error) {
	c, err := openConn(filename, mode)
	if err != nil {
		return nil, err
	}
	return &Conn{c: c, logger: logOrDiscard(logger)}, nil
}

// checkAvailable returns the borrowed error if a Transaction currently owns
// the underlying connection, implementing the borrow discipline of C10:
// the parent Conn is inaccessible for the duration of its Transaction block.
func (c *Conn) checkAvailable() error {
	if c.borrowed {
		return newErr(KindConnectionBorrowed, "connection is borrowed by an in-progress transaction")
	}
	return nil
}

// Close releases the underlying engine handle. Idempotent.
func (c *Conn) Close() error {
	if err := c.checkAvailable(); err != nil {
		return err
	}
	return c.c.close()
}

// Preparing prepares q and hands back the live Stmt for manual stepping,
// the non-terminal half of §4.5 — the caller is responsible for eventually
// calling Step (directly or through a terminal fetcher) and Finalize.
func (c *Conn) Preparing(q Query) (*Stmt, error) {
	if err := c.checkAvailable(); err != nil {
		return nil, err
	}
	return prepareStmt(c.c, q, c.logger)
}

// Run executes q for its side effects and reports them, finalizing the
// statement before returning.
func (c *Conn) Run(q Query) (RunResult, error) {
	s, err := c.Preparing(q)
	if err != nil {
		return RunResult{}, err
	}
	return s.Run()
}

// Execute is Run without the result, for statements whose effects the
// caller doesn't need to inspect.
func (c *Conn) Execute(q Query) error {
	_, err := c.Run(q)
	return err
}

// FetchAll prepares q, collects every row, and finalizes.
func (c *Conn) FetchAll(q Query) ([]Row, error) {
	s, err := c.Preparing(q)
	if err != nil {
		return nil, err
	}
	return s.FetchAll()
}

// FetchOne prepares q and returns its first row (no-rows-fetched if there
// is none), finalizing either way.
func (c *Conn) FetchOne(q Query) (Row, error) {
	s, err := c.Preparing(q)
	if err != nil {
		return Row{}, err
	}
	return s.FetchOne()
}

// FetchOptional prepares q and tolerates zero rows, finalizing either way.
func (c *Conn) FetchOptional(q Query) (*Row, error) {
	s, err := c.Preparing(q)
	if err != nil {
		return nil, err
	}
	return s.FetchOptional()
}

// TxKind selects the engine's transaction locking mode (§4.7): deferred
// acquires no locks until first use, immediate takes the write lock right
// away, exclusive additionally blocks other readers.
type TxKind int

const (
	TxDeferred TxKind = iota
	TxImmediate
	TxExclusive
)

func (k TxKind) beginSQL() string {
	switch k {
	case TxImmediate:
		return "BEGIN IMMEDIATE"
	case TxExclusive:
		return "BEGIN EXCLUSIVE"
	default:
		return "BEGIN DEFERRED"
	}
}

// Tx is the scoped view a Transaction block receives (C10): the same
// fetch/run surface as Conn, bound to the same underlying connection, for
// the lifetime of the block. Its method set intentionally mirrors Conn's —
// a Tx is "the connection, borrowed" rather than a different kind of thing.
type Tx struct {
	c      *conn
	logger Logger
}

// Preparing is Conn.Preparing, scoped to the transaction.
func (t *Tx) Preparing(q Query) (*Stmt, error) { return prepareStmt(t.c, q, t.logger) }

// Run is Conn.Run, scoped to the transaction.
func (t *Tx) Run(q Query) (RunResult, error) {
	s, err := t.Preparing(q)
	if err != nil {
		return RunResult{}, err
	}
	return s.Run()
}

// Execute is Conn.Execute, scoped to the transaction.
func (t *Tx) Execute(q Query) error {
	_, err := t.Run(q)
	return err
}

// FetchAll is Conn.FetchAll, scoped to the transaction.
func (t *Tx) FetchAll(q Query) ([]Row, error) {
	s, err := t.Preparing(q)
	if err != nil {
		return nil, err
	}
	return s.FetchAll()
}

// FetchOne is Conn.FetchOne, scoped to the transaction.
func (t *Tx) FetchOne(q Query) (Row, error) {
	s, err := t.Preparing(q)
	if err != nil {
		return Row{}, err
	}
	return s.FetchOne()
}

// FetchOptional is Conn.FetchOptional, scoped to the transaction.
func (t *Tx) FetchOptional(q Query) (*Row, error) {
	s, err := t.Preparing(q)
	if err != nil {
		return nil, err
	}
	return s.FetchOptional()
}

// Transaction runs fn inside a BEGIN/COMMIT block of the given kind (§4.7).
// For the block's duration c itself refuses every operation
// (connection-borrowed) — only the Tx handle fn receives may touch the
// connection, enforcing single ownership the way a linear type would in a
// language that had one. fn returning a non-nil error rolls the
// transaction back and propagates that error; a panic inside fn rolls back
// and re-panics.
func (c *Conn) Transaction(kind TxKind, fn func(*Tx) error) (err error) {
	if err := c.checkAvailable(); err != nil {
		return err
	}
	if execErr := c.c.execBatch(kind.beginSQL()); execErr != nil {
		return execErr
	}

	c.borrowed = true
	defer func() { c.borrowed = false }()

	tx := &Tx{c: c.c, logger: c.logger}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := c.c.execBatch("ROLLBACK"); rbErr != nil {
				c.logger.Println("dawg: rollback after panic:", rbErr)
			}
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := c.c.execBatch("ROLLBACK"); rbErr != nil {
			c.logger.Println("dawg: rollback:", rbErr)
		}
		return err
	}

	if commitErr := c.c.execBatch("COMMIT"); commitErr != nil {
		return commitErr
	}
	return nil
}
