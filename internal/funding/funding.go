// Package funding manages the optional link from an entry to the prior
// confirmed transaction that supplied its funds, and reconstructs the
// resulting chain for display and audit.
package funding

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/botica-dev/botica/internal/model"
)

// MaxDepth bounds funding path traversal. Attach rejects cycles up front, but
// out-of-band mutation could still slip one past; the bound guarantees
// termination regardless.
const MaxDepth = 64

var (
	// ErrSelfFunding is returned when an entry names its own transaction as
	// the funding source.
	ErrSelfFunding = errors.New("transaction cannot fund itself")
	// ErrFundingCycle is returned when the source's funding path leads back
	// to the owning transaction.
	ErrFundingCycle = errors.New("funding link would create a cycle")
	// ErrSourceNotFound is returned when the named source does not exist.
	ErrSourceNotFound = errors.New("funding source not found")
	// ErrSourceNotConfirmed is returned when the named source is not in the
	// confirmed state.
	ErrSourceNotConfirmed = errors.New("funding source is not confirmed")
)

// Lookup fetches a transaction by id. A nil result with nil error means the
// transaction does not exist; the resolver treats that as a valid outcome.
type Lookup func(id string) (*model.TransactionGroup, error)

// Resolver walks and validates funding links.
type Resolver struct {
	lookup Lookup
	log    *zap.Logger
}

// NewResolver creates a Resolver. A nil logger disables logging.
func NewResolver(lookup Lookup, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{lookup: lookup, log: log}
}

// Attach sets sourceID as the funding source on entries[index], owned by the
// transaction ownerID. On any failure the entries are left untouched.
func (r *Resolver) Attach(entries []model.Entry, index int, ownerID, sourceID string) error {
	if index < 0 || index >= len(entries) {
		return fmt.Errorf("entry index %d out of range", index)
	}
	if sourceID == ownerID {
		return ErrSelfFunding
	}

	source, err := r.lookup(sourceID)
	if err != nil {
		return fmt.Errorf("looking up funding source %s: %w", sourceID, err)
	}
	if source == nil {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, sourceID)
	}
	if source.Status != model.StatusConfirmed {
		return fmt.Errorf("%w: %s is %s", ErrSourceNotConfirmed, sourceID, source.Status)
	}

	// Reject when the source's own chain already contains the owner.
	path, _, err := r.walk(sourceID)
	if err != nil {
		return err
	}
	for _, id := range path {
		if id == ownerID {
			return fmt.Errorf("%w: %s funds trace back to %s", ErrFundingCycle, sourceID, ownerID)
		}
	}

	entries[index].SourceTransactionID = sourceID
	entries[index].FundingPath = path
	return nil
}

// Remove clears the funding source on entries[index].
func Remove(entries []model.Entry, index int) error {
	if index < 0 || index >= len(entries) {
		return fmt.Errorf("entry index %d out of range", index)
	}
	entries[index].SourceTransactionID = ""
	entries[index].FundingPath = nil
	return nil
}

// PathResult is a resolved funding chain. Dangling or over-deep chains are
// reported as warnings, not failures.
type PathResult struct {
	Path     []string
	Warnings []string
}

// ResolvePath walks the entry's funding links transitively, oldest link last.
// Missing transactions truncate the path; traversal stops after MaxDepth hops.
func (r *Resolver) ResolvePath(entry model.Entry) (PathResult, error) {
	if entry.SourceTransactionID == "" {
		return PathResult{}, nil
	}
	path, warnings, err := r.walk(entry.SourceTransactionID)
	if err != nil {
		return PathResult{}, err
	}
	return PathResult{Path: path, Warnings: warnings}, nil
}

// walk follows funding links starting at (and including) startID.
func (r *Resolver) walk(startID string) (path []string, warnings []string, err error) {
	id := startID
	for hops := 0; id != ""; hops++ {
		if hops >= MaxDepth {
			msg := fmt.Sprintf("funding path exceeds %d hops, truncated", MaxDepth)
			r.log.Warn("funding path truncated", zap.String("start", startID), zap.Int("max_depth", MaxDepth))
			warnings = append(warnings, msg)
			break
		}

		txn, err := r.lookup(id)
		if err != nil {
			return nil, nil, fmt.Errorf("looking up transaction %s: %w", id, err)
		}
		if txn == nil {
			// The source was deleted out from under us. Tolerated: the
			// reference stays in the path, the chain just ends here.
			r.log.Warn("funding source missing", zap.String("transaction_id", id))
			path = append(path, id)
			warnings = append(warnings, fmt.Sprintf("transaction %s no longer exists, path truncated", id))
			break
		}

		path = append(path, id)
		id = txn.SourceTransactionID
	}
	return path, warnings, nil
}
