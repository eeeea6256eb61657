// Package finder runs a duplicate scan: it walks a directory tree,
// fingerprints every regular file and groups files whose fingerprints match.
//
// A scan is sequential by default. With Workers > 1 fingerprints are computed
// by a bounded pool, and results are ingested in discovery order so the
// output is the same as a sequential run.
package finder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"dupfind/internal/hash"
	"dupfind/internal/index"
	"dupfind/internal/logging"
	"dupfind/internal/report"
	"dupfind/internal/tree"
	"dupfind/internal/walker"
)

var (
	// ErrPathNotFound is returned when the scan root does not exist or is
	// not a directory.
	ErrPathNotFound = errors.New("path not found")

	// ErrAborted wraps the first unreadable subtree under the Abort policy.
	ErrAborted = errors.New("scan aborted")
)

type ErrorPolicy int

const (
	// Skip leaves unreadable subtrees out and continues.
	Skip ErrorPolicy = iota
	// Abort stops the scan at the first unreadable subtree.
	Abort
)

func ParsePolicy(name string) (ErrorPolicy, error) {
	switch name {
	case "", "skip":
		return Skip, nil
	case "abort":
		return Abort, nil
	default:
		return Skip, fmt.Errorf("unknown error policy: %s", name)
	}
}

// Observer is called once per file about to be fingerprinted, with a
// 1-based running count and the file's base name.
type Observer func(count int, name string)

type Options struct {
	Walk      walker.Options
	Algorithm hash.Algorithm
	// Workers bounds concurrent fingerprinting. Values below 2 run the scan
	// sequentially.
	Workers  int
	OnError  ErrorPolicy
	Observer Observer
	Logger   logrus.FieldLogger
	// Digest computes an audit digest over every fingerprinted file.
	Digest bool
}

type Result struct {
	Root string
	// Groups holds the duplicate groups, largest files first.
	Groups []index.Group
	// Scanned counts the files that were fingerprinted.
	Scanned int
	Skipped []*walker.SkipError
	Digest  string
}

func (r *Result) HasDuplicates() bool {
	return len(r.Groups) > 0
}

func (r *Result) Report() *report.Report {
	return &report.Report{
		Root:    r.Root,
		Groups:  r.Groups,
		Scanned: r.Scanned,
		Skipped: r.Skipped,
		Digest:  r.Digest,
	}
}

// Find scans root and returns its duplicate groups. Only an invalid root, an
// aborted scan or a cancelled context produce an error; unreadable paths are
// listed in Result.Skipped.
func Find(ctx context.Context, root string, opts Options) (*Result, error) {
	absRoot, err := validateRoot(root)
	if err != nil {
		return nil, err
	}

	alg := opts.Algorithm
	if alg == "" {
		alg = hash.XXHash
	}
	hasher, err := hash.NewHasher(alg)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &scan{
		root:   absRoot,
		opts:   opts,
		hasher: hasher,
		index:  index.New(),
		logger: logger.WithField("root", absRoot),
		result: &Result{Root: absRoot},
	}

	s.logger.WithFields(logrus.Fields{
		"algorithm": alg,
		"workers":   opts.Workers,
	}).Debug("starting scan")

	if opts.Workers > 1 {
		err = s.parallel(ctx)
	} else {
		err = s.sequential(ctx)
	}
	if err != nil {
		return nil, err
	}

	s.result.Groups = report.Order(s.index.DuplicateGroups())

	if opts.Digest {
		digest, err := tree.Root(s.leaves)
		if err != nil {
			return nil, fmt.Errorf("failed to compute digest: %w", err)
		}
		s.result.Digest = digest
	}

	s.logger.WithFields(logrus.Fields{
		"scanned": s.result.Scanned,
		"groups":  len(s.result.Groups),
		"skipped": len(s.result.Skipped),
	}).Debug("scan complete")

	return s.result, nil
}

func validateRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrPathNotFound, root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrPathNotFound, root)
	}
	return absRoot, nil
}

type scan struct {
	root   string
	opts   Options
	hasher *hash.Hasher
	index  *index.Index
	logger logrus.FieldLogger
	result *Result
	leaves []tree.Leaf
	count  int
}

func (s *scan) sequential(ctx context.Context) error {
	for rec, walkErr := range walker.Walk(s.root, s.opts.Walk) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if err := s.skip(walkErr); err != nil {
				return err
			}
			continue
		}

		s.observe(rec)
		fp, err := s.hasher.HashFile(rec.Path())
		if err != nil {
			s.skipFile(rec, err)
			continue
		}
		s.ingest(rec, fp)
	}
	return nil
}

type slot struct {
	rec walker.FileRecord
	fp  hash.Fingerprint
	err error
}

func (s *scan) parallel(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	// Each file gets a slot in discovery order; workers only write their own.
	var slots []*slot
	var abortErr error

	for rec, walkErr := range walker.Walk(s.root, s.opts.Walk) {
		if gctx.Err() != nil {
			break
		}
		if walkErr != nil {
			if abortErr = s.skip(walkErr); abortErr != nil {
				break
			}
			continue
		}

		s.observe(rec)
		sl := &slot{rec: rec}
		slots = append(slots, sl)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sl.fp, sl.err = s.hasher.HashFile(sl.rec.Path())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if abortErr != nil {
		return abortErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, sl := range slots {
		if sl.err != nil {
			s.skipFile(sl.rec, sl.err)
			continue
		}
		s.ingest(sl.rec, sl.fp)
	}
	return nil
}

func (s *scan) observe(rec walker.FileRecord) {
	s.count++
	if s.opts.Observer != nil {
		s.opts.Observer(s.count, rec.Name)
	}
}

func (s *scan) ingest(rec walker.FileRecord, fp hash.Fingerprint) {
	s.index.Ingest(rec, fp)
	s.result.Scanned++

	if s.opts.Digest {
		relPath, err := filepath.Rel(s.root, rec.Path())
		if err != nil {
			relPath = rec.Path()
		}
		s.leaves = append(s.leaves, tree.Leaf{Path: relPath, Fingerprint: fp})
	}
}

// skip records a path left out of the scan. It returns an error only when
// the policy says the scan must stop.
func (s *scan) skip(err error) error {
	var skipErr *walker.SkipError
	if !errors.As(err, &skipErr) {
		skipErr = &walker.SkipError{Kind: walker.FileUnreadable, Err: err}
	}

	s.result.Skipped = append(s.result.Skipped, skipErr)
	s.logger.WithFields(logrus.Fields{
		"path": skipErr.Path,
		"kind": skipErr.Kind.String(),
	}).WithError(skipErr.Err).Warn("skipping path")

	if skipErr.Kind == walker.SubtreeUnreadable && s.opts.OnError == Abort {
		return fmt.Errorf("%w: %w", ErrAborted, skipErr)
	}
	return nil
}

func (s *scan) skipFile(rec walker.FileRecord, err error) {
	// File errors never stop the scan.
	_ = s.skip(&walker.SkipError{Kind: walker.FileUnreadable, Path: rec.Path(), Err: err})
}
