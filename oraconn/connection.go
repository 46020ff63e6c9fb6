package oraconn

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/mickamy/ora-ttc/auth"
	"github.com/mickamy/ora-ttc/bind"
	"github.com/mickamy/ora-ttc/cursor"
	"github.com/mickamy/ora-ttc/protocol"
	"github.com/mickamy/ora-ttc/stmt"
	"github.com/mickamy/ora-ttc/tnsproto"
)

// Function codes for the requests this connection issues outside of
// StatementExecutor's own execute/reexecute/fetch requests.
const (
	functionCodePing        = 0x93
	functionCodeCommit      = 0x0E
	functionCodeRollback    = 0x0F
	functionCodeCursorClose = 0x11
	rowStreamBufferSize     = 64

	// driverName identifies this library in the TNS Protocol negotiation
	// message, independent of whatever program links against it.
	driverName = "ora-ttc"
)

// Connection is a single Oracle TNS/TTC session: one negotiated
// capability set, one authenticated AUTH session, one serialized task
// queue over one I/O goroutine. No method on Connection is safe to call
// concurrently from multiple goroutines except via the task queue itself.
type Connection struct {
	cfg      Config
	conn     net.Conn
	framer   *tnsproto.Framer
	caps     tnsproto.Capabilities
	decoder  *protocol.ResponseDecoder
	executor *protocol.StatementExecutor
	cleanup  *cursor.CleanupContext

	tasks  chan *task
	group  *errgroup.Group
	cancel context.CancelFunc

	columnsMu sync.Mutex
	columns   []cursor.ColumnDescriptor

	closeOnce sync.Once
}

// Dial establishes a TCP connection (retried per cfg.RetryCount/RetryDelay),
// negotiates capabilities, authenticates, and starts the connection's I/O
// goroutine. The returned Connection must be closed with Close.
func Dial(ctx context.Context, cfg Config) (*Connection, error) {
	cfg = cfg.normalize()

	rawConn, err := dialWithRetry(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("oraconn: dial: %w", err)
	}

	framer := tnsproto.NewFramer(rawConn)
	negotiator := tnsproto.NewNegotiator(framer, driverName)
	caps, err := negotiator.Negotiate(connectDescriptor(cfg))
	if err != nil {
		_ = rawConn.Close()
		return nil, fmt.Errorf("oraconn: negotiate: %w", err)
	}
	cfg.logf("oraconn: negotiated protocol version %d, sdu %d, charset %d", caps.ProtocolVersion, caps.SDU, caps.CharsetID)

	if err := authenticate(framer, cfg); err != nil {
		_ = rawConn.Close()
		return nil, fmt.Errorf("oraconn: authenticate: %w", err)
	}

	groupCtx, cancel := context.WithCancel(context.Background())
	group, groupCtx2 := errgroup.WithContext(groupCtx)

	c := &Connection{
		cfg:      cfg,
		conn:     rawConn,
		framer:   framer,
		caps:     caps,
		decoder:  protocol.NewResponseDecoder(caps),
		executor: protocol.NewStatementExecutor(caps.TTCFieldVersion, caps.CharsetID),
		cleanup:  cursor.NewCleanupContext(),
		tasks:    make(chan *task),
		group:    group,
		cancel:   cancel,
	}

	group.Go(func() error {
		return c.loop(groupCtx2)
	})

	return c, nil
}

func connectDescriptor(cfg Config) tnsproto.ConnectDescriptor {
	return tnsproto.ConnectDescriptor{
		Host:        cfg.Host,
		Port:        cfg.Port,
		ServiceName: cfg.Service,
		ConnectID:   cfg.ConnectionIDPrefix,
		Program:     cfg.Program,
		Machine:     cfg.Machine,
		OSUser:      cfg.OSUser,
	}
}

// dialWithRetry dials the TCP connection, retrying up to cfg.RetryCount
// times with cfg.RetryDelay between attempts via an exponential backoff
// policy capped at that delay.
func dialWithRetry(ctx context.Context, cfg Config) (net.Conn, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = cfg.RetryDelay
	policy.MaxInterval = cfg.RetryDelay
	if policy.InitialInterval == 0 {
		policy.InitialInterval = 100 * time.Millisecond
	}
	retryPolicy := backoff.WithMaxRetries(policy, uint64(maxInt(cfg.RetryCount, 0))) //nolint:gosec // retry count is caller-bounded

	var rawConn net.Conn
	operation := func() error {
		dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
		c, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		rawConn = c
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(retryPolicy, ctx)); err != nil {
		return nil, err
	}
	return rawConn, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// authenticate drives the two-phase AUTH handshake over framer, deriving
// the session key and encrypted password from cfg's credentials.
func authenticate(framer *tnsproto.Framer, cfg Config) error {
	authr := auth.NewAuthenticator(cfg.Program, cfg.Machine, cfg.OSUser, os.Getpid())
	ctx := auth.NewContext(cfg.Username, cfg.Password)
	defer ctx.Zero()
	ctx.NewPassword = cfg.NewPassword
	ctx.Mode = auth.Mode(cfg.AuthorizationMode) //nolint:gosec // caller-constructed bitmask

	phaseOne := authr.BuildPhaseOne(cfg.Username)
	if err := sendAuthParams(framer, cfg.Username, authModeContinue, phaseOne); err != nil {
		return err
	}
	resp, err := recvAuthParams(framer)
	if err != nil {
		return err
	}

	flags, err := auth.VerifierFlags(resp)
	if err != nil {
		return err
	}
	challenge, err := auth.ParsePhaseOneResponse(resp, flags)
	if err != nil {
		return err
	}

	phaseTwo, err := authr.BuildPhaseTwo(ctx, challenge)
	if err != nil {
		return err
	}
	if err := sendAuthParams(framer, cfg.Username, 0, phaseTwo); err != nil {
		return err
	}
	if _, err := recvAuthParams(framer); err != nil {
		return err
	}
	return nil
}

// submit enqueues t and blocks until the I/O goroutine has processed it or
// ctx is done.
func (c *Connection) submit(ctx context.Context, t *task) (taskResult, error) {
	select {
	case c.tasks <- t:
	case <-ctx.Done():
		return taskResult{}, ctx.Err()
	}
	select {
	case r := <-t.result:
		return r, nil
	case <-ctx.Done():
		return taskResult{}, ctx.Err()
	}
}

// Ping round-trips a no-op request to verify the connection is alive.
func (c *Connection) Ping(ctx context.Context) error {
	t := newTask(taskPing)
	r, err := c.submit(ctx, t)
	if err != nil {
		return err
	}
	return r.err
}

// Commit sends a COMMIT and waits for acknowledgement.
func (c *Connection) Commit(ctx context.Context) error {
	t := newTask(taskCommit)
	r, err := c.submit(ctx, t)
	if err != nil {
		return err
	}
	return r.err
}

// Rollback sends a ROLLBACK and waits for acknowledgement.
func (c *Connection) Rollback(ctx context.Context) error {
	t := newTask(taskRollback)
	r, err := c.submit(ctx, t)
	if err != nil {
		return err
	}
	return r.err
}

// Execute submits a statement for execution, returning a bounded row
// stream for queries (nil for non-query statements).
func (c *Connection) Execute(ctx context.Context, st stmt.Statement, enc *bind.Encoder, rows [][]bind.Value, opts protocol.ExecuteOptions) (<-chan cursor.Row, error) {
	t := newTask(taskStatement)
	t.statement = &statementRequest{stmt: st, opts: opts, encoder: enc, rows: rows}
	r, err := c.submit(ctx, t)
	if err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.rows, nil
}

// Close stops the I/O goroutine and closes the underlying socket. Safe to
// call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.tasks)
		c.cancel()
		_ = c.group.Wait()
		err = c.conn.Close()
	})
	return err
}

// loop is the connection's single I/O goroutine: it processes submitted
// tasks strictly FIFO, the only goroutine that ever touches the framer.
func (c *Connection) loop(ctx context.Context) error {
	for {
		select {
		case t, ok := <-c.tasks:
			if !ok {
				return nil
			}
			c.process(ctx, t)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Connection) process(ctx context.Context, t *task) {
	switch t.kind {
	case taskPing:
		t.result <- taskResult{err: c.doPing()}
	case taskCommit:
		t.result <- taskResult{err: c.doTxnControl(functionCodeCommit)}
	case taskRollback:
		t.result <- taskResult{err: c.doTxnControl(functionCodeRollback)}
	case taskStatement:
		rowsCh, err := c.doStatement(ctx, t.statement)
		t.result <- taskResult{rows: rowsCh, err: err}
	case taskClose:
		t.result <- taskResult{err: nil}
	case taskLOB:
		t.result <- taskResult{err: fmt.Errorf("oraconn: LOB task not implemented")}
	}
}

func (c *Connection) doPing() error {
	if err := c.framer.Send(tnsproto.PacketTypeData, []byte{functionCodePing}); err != nil {
		return fmt.Errorf("oraconn: ping: %w", err)
	}
	return c.drainUntilStatus()
}

func (c *Connection) doTxnControl(functionCode byte) error {
	if err := c.framer.Send(tnsproto.PacketTypeData, []byte{functionCode}); err != nil {
		return fmt.Errorf("oraconn: txn control: %w", err)
	}
	return c.drainUntilStatus()
}

// drainUntilStatus reads response messages until a Status message
// concludes the exchange, surfacing the first non-end-of-fetch server
// error encountered.
func (c *Connection) drainUntilStatus() error {
	var firstErr *protocol.OracleError
	for {
		_, payload, err := c.framer.Recv()
		if err != nil {
			return fmt.Errorf("oraconn: recv: %w", err)
		}
		offset := 0
		for offset < len(payload) {
			ev, n, err := c.decoder.Decode(payload, offset)
			if err != nil {
				return fmt.Errorf("oraconn: decode: %w", err)
			}
			offset += n
			switch ev.Kind {
			case protocol.EventError:
				if !protocol.IsEndOfFetch(ev.OracleErr) && firstErr == nil {
					firstErr = ev.OracleErr
				}
			case protocol.EventPiggyback:
				if ev.Piggyback.SessionStateInvalidated {
					c.cfg.logf("oraconn: session state invalidated by piggyback")
				}
			case protocol.EventStatus:
				if firstErr != nil {
					return firstErr
				}
				return nil
			}
		}
	}
}

// doStatement builds and sends the execute request for st, then streams
// decoded rows into a bounded channel the caller drains for backpressure.
func (c *Connection) doStatement(ctx context.Context, req *statementRequest) (<-chan cursor.Row, error) {
	hasCursor := req.cursor != nil
	plan := protocol.PlanExecution(req.stmt, hasCursor, false, false, req.opts.Prefetch)

	wire, err := c.executor.BuildRequest(req.stmt, req.cursor, plan, req.opts, req.encoder, req.rows, c.cleanup)
	if err != nil {
		return nil, fmt.Errorf("oraconn: build request: %w", err)
	}
	if err := c.framer.Send(tnsproto.PacketTypeData, wire); err != nil {
		return nil, fmt.Errorf("oraconn: send execute: %w", err)
	}

	if req.stmt.Kind != stmt.KindQuery {
		return nil, c.drainUntilStatus()
	}

	out := make(chan cursor.Row, rowStreamBufferSize)
	go c.streamRows(ctx, out)
	return out, nil
}

// streamRows reads the response belonging to a fetch and delivers rows to
// out, respecting ctx cancellation and the bounded channel's backpressure.
// It is the one place a non-loop goroutine exists per active query, joined
// implicitly by out being closed.
func (c *Connection) streamRows(ctx context.Context, out chan<- cursor.Row) {
	defer close(out)

	var columnCount int
	var columnTypes []stmt.DataType
	var lastBitVector []byte
	var previous cursor.Row

	for {
		_, payload, err := c.framer.Recv()
		if err != nil {
			return
		}
		offset := 0
		for offset < len(payload) {
			id := protocol.MessageID(payload[offset])
			if id == protocol.MessageRowData {
				row, n, err := c.decoder.DecodeRow(payload, offset+1, columnCount, columnTypes)
				if err != nil {
					return
				}
				offset += 1 + n
				merged := cursor.MergeRow(lastBitVector, previous, row)
				previous = merged
				select {
				case out <- merged:
				case <-ctx.Done():
					return
				}
				continue
			}

			ev, n, err := c.decoder.Decode(payload, offset)
			if err != nil {
				return
			}
			offset += n
			switch ev.Kind {
			case protocol.EventDescribeInfo:
				columnCount = len(ev.Columns)
				columnTypes = make([]stmt.DataType, columnCount)
				for i, col := range ev.Columns {
					columnTypes[i] = col.Type
				}
				c.setColumns(ev.Columns)
			case protocol.EventRowHeader:
				columnCount = ev.ColumnCount
			case protocol.EventBitVector:
				lastBitVector = ev.BitVector
			case protocol.EventError:
				return
			case protocol.EventStatus:
				return
			}
		}
	}
}

func (c *Connection) setColumns(cols []cursor.ColumnDescriptor) {
	c.columnsMu.Lock()
	c.columns = cols
	c.columnsMu.Unlock()
}

// Columns returns the column descriptors described by the most recently
// executed query. It is safe to call while rows are still streaming in,
// since the describe info always precedes the first row.
func (c *Connection) Columns() []cursor.ColumnDescriptor {
	c.columnsMu.Lock()
	defer c.columnsMu.Unlock()
	return c.columns
}

// UnderlyingConn returns the raw network connection, for diagnostics such
// as reading TCP_INFO. It must not be read from or written to directly.
func (c *Connection) UnderlyingConn() net.Conn {
	return c.conn
}

// CleanupDepth reports the number of cursor closes and temp LOB closes
// currently queued for piggyback delivery.
func (c *Connection) CleanupDepth() int {
	return c.cleanup.Depth()
}

// Capabilities returns the negotiated capability set.
func (c *Connection) Capabilities() tnsproto.Capabilities {
	return c.caps
}
