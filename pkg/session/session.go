// Package session wires the wire codec, transaction store, and ingest
// driver into the single glue operation a connection handler needs:
// decode the header, resume or create the matching transaction, stream
// the payload in, and commit or roll back.
package session

import (
	"context"
	"io"

	"github.com/celaltas/lanshare-go/internal/logger"
	"github.com/celaltas/lanshare-go/pkg/ferr"
	"github.com/celaltas/lanshare-go/pkg/ingest"
	"github.com/celaltas/lanshare-go/pkg/store"
	"github.com/celaltas/lanshare-go/pkg/wire"
)

// Store is the subset of *store.Store a Controller depends on.
type Store interface {
	CreateTransaction(filename string, totalSize uint64, expectedSHA [32]byte) (*store.Transaction, error)
	ResumeTransaction(filename string) (*store.Transaction, error)
}

// Controller handles one transfer connection end to end.
type Controller struct {
	store      Store
	bufferSize int
}

// New returns a Controller that stages transfers through s, copying payload
// bytes with bufferSize-sized reads (ingest.DefaultBufferSize if zero).
func New(s Store, bufferSize int) *Controller {
	return &Controller{store: s, bufferSize: bufferSize}
}

// Handle decodes a header from r, resumes an existing transaction for that
// filename or creates a new one, streams exactly the remaining payload
// bytes from r into it, and commits. On a short read that leaves at least
// one payload byte staged, or on an incomplete commit, the transaction is
// left staged so a future connection can resume it; a short read with
// nothing staged, a digest mismatch, or any other failure rolls the
// transaction back.
func (c *Controller) Handle(ctx context.Context, r io.Reader) error {
	header, err := wire.Decode(r)
	if err != nil {
		logger.ErrorCtx(ctx, "failed to decode header", logger.Err(err))
		return err
	}

	lc := logger.FromContext(ctx)
	if lc != nil {
		ctx = logger.WithContext(ctx, lc.WithTransaction("", header.Name))
	}

	tx, resumed, err := c.openTransaction(header)
	if err != nil {
		logger.ErrorCtx(ctx, "failed to open transaction", logger.Filename(header.Name), logger.Err(err))
		return err
	}

	lc = logger.FromContext(ctx)
	if lc != nil {
		ctx = logger.WithContext(ctx, lc.WithTransaction(tx.ID(), header.Name))
	}
	logger.InfoCtx(ctx, "transaction opened",
		logger.TransactionID(tx.ID()), logger.Filename(header.Name),
		logger.TotalSize(tx.TotalSize()), logger.WrittenBytes(tx.WrittenBytes()), logger.Resumed(resumed))

	remaining := tx.Remaining()
	if err := ingest.Receive(ctx, r, tx, remaining, c.bufferSize); err != nil {
		if ferr.IsShortRead(err) && tx.WrittenBytes() > 0 {
			logger.WarnCtx(ctx, "short read, leaving transaction staged for resume", logger.Err(err))
			return err
		}
		logger.ErrorCtx(ctx, "ingest failed, rolling back", logger.Err(err))
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.ErrorCtx(ctx, "rollback failed", logger.Err(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		switch {
		case ferr.IsIncomplete(err):
			logger.WarnCtx(ctx, "commit called before transfer was complete, leaving transaction staged", logger.Err(err))
		case ferr.IsDigestMismatch(err):
			// Commit already rolled back the staging directory itself.
			logger.ErrorCtx(ctx, "digest mismatch, transaction rolled back", logger.Err(err))
		default:
			logger.ErrorCtx(ctx, "commit failed, rolling back", logger.Err(err))
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.ErrorCtx(ctx, "rollback failed", logger.Err(rbErr))
			}
		}
		return err
	}

	logger.InfoCtx(ctx, "transaction committed", logger.DurationMs(lc.DurationMs()))
	return nil
}

// openTransaction resumes a staged transaction matching header.Name, or
// starts a fresh one when none is found.
func (c *Controller) openTransaction(header wire.Header) (*store.Transaction, bool, error) {
	tx, err := c.store.ResumeTransaction(header.Name)
	if err == nil {
		return tx, true, nil
	}
	if !ferr.IsNotFound(err) {
		return nil, false, err
	}

	tx, err = c.store.CreateTransaction(header.Name, header.Size, header.ExpectedSHA)
	if err != nil {
		return nil, false, err
	}
	return tx, false, nil
}
