package cursor

import "github.com/google/uuid"

// TempLOB is a temporary LOB locator queued for server-side closure,
// keyed by a client-generated id so it can be tracked and deduplicated
// independent of its (reusable) locator bytes.
type TempLOB struct {
	ID      uuid.UUID
	Locator []byte
	Size    uint64
}

// CleanupContext accumulates cursor ids and temporary LOB locators that
// the client dropped without an explicit close, flushed as a piggyback on
// the next outgoing request or during graceful connection close.
type CleanupContext struct {
	cursorIDs  []uint16
	tempLOBs   map[uuid.UUID]TempLOB
	totalBytes uint64
}

// NewCleanupContext creates an empty CleanupContext.
func NewCleanupContext() *CleanupContext {
	return &CleanupContext{tempLOBs: make(map[uuid.UUID]TempLOB)}
}

// QueueCursor marks id for closure on the next piggyback flush.
func (c *CleanupContext) QueueCursor(id uint16) {
	c.cursorIDs = append(c.cursorIDs, id)
}

// QueueTempLOB registers a temporary LOB locator for closure, tracked
// under a fresh id. Returns the id so the caller can later cancel the
// queued closure (e.g. if the LOB is read to completion before cleanup
// would otherwise fire).
func (c *CleanupContext) QueueTempLOB(locator []byte, size uint64) uuid.UUID {
	id := uuid.New()
	c.tempLOBs[id] = TempLOB{ID: id, Locator: locator, Size: size}
	c.totalBytes += size
	return id
}

// CancelTempLOB removes a previously queued temp LOB from the cleanup
// queue, e.g. because it was consumed normally.
func (c *CleanupContext) CancelTempLOB(id uuid.UUID) {
	if lob, ok := c.tempLOBs[id]; ok {
		c.totalBytes -= lob.Size
		delete(c.tempLOBs, id)
	}
}

// Depth returns the number of cursors and temp LOBs currently queued.
func (c *CleanupContext) Depth() int {
	return len(c.cursorIDs) + len(c.tempLOBs)
}

// TotalLOBBytes returns the aggregate size of all queued temp LOBs.
func (c *CleanupContext) TotalLOBBytes() uint64 {
	return c.totalBytes
}

// Flush returns the queued cursor ids and temp LOB locators for emission
// as a piggyback, and clears the queue. Best-effort: the caller is not
// required to confirm the server actually closed each item.
func (c *CleanupContext) Flush() (cursorIDs []uint16, lobLocators [][]byte) {
	cursorIDs = c.cursorIDs
	c.cursorIDs = nil

	lobLocators = make([][]byte, 0, len(c.tempLOBs))
	for _, lob := range c.tempLOBs {
		lobLocators = append(lobLocators, lob.Locator)
	}
	c.tempLOBs = make(map[uuid.UUID]TempLOB)
	c.totalBytes = 0

	return cursorIDs, lobLocators
}
