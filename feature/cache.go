package feature

import (
	"sync"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-features/feature/dct"
	"github.com/cwbudde/algo-features/feature/melbank"
)

type melKey struct {
	bins       int
	fMin, fMax float64
	nMels      int
}

type dctKey struct {
	nMFCC, nMels int
	norm         dct.Norm
}

// Cache memoises filterbank and DCT matrices by their parameters.
//
// Returned matrices are shared between callers and must be treated as
// read-only. A Cache is safe for concurrent use; the zero value is not, use
// [NewCache].
type Cache struct {
	mu     sync.RWMutex
	mel    map[melKey]*mat.Dense
	dct    map[dctKey]*mat.Dense
	logger *zap.Logger
}

// NewCache returns an empty cache. A nil logger disables logging.
func NewCache(logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		mel:    make(map[melKey]*mat.Dense),
		dct:    make(map[dctKey]*mat.Dense),
		logger: logger,
	}
}

// Filterbank returns the (bins, nMels) mel filterbank, building it on first
// use.
func (c *Cache) Filterbank(bins int, fMin, fMax float64, nMels int) (*mat.Dense, error) {
	key := melKey{bins: bins, fMin: fMin, fMax: fMax, nMels: nMels}

	c.mu.RLock()
	fb, ok := c.mel[key]
	c.mu.RUnlock()
	if ok {
		c.logger.Debug("mel filterbank cache hit", zap.Int("bins", bins), zap.Int("n_mels", nMels))
		return fb, nil
	}

	fb, err := melbank.Build(bins, fMin, fMax, nMels)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have won the race; keep the first matrix so all
	// callers share one instance.
	if prev, ok := c.mel[key]; ok {
		return prev, nil
	}
	c.mel[key] = fb
	c.logger.Debug("built mel filterbank",
		zap.Int("bins", bins),
		zap.Float64("f_min", fMin),
		zap.Float64("f_max", fMax),
		zap.Int("n_mels", nMels),
	)
	return fb, nil
}

// DCT returns the (nMels, nMFCC) DCT-II basis, building it on first use.
func (c *Cache) DCT(nMFCC, nMels int, norm dct.Norm) (*mat.Dense, error) {
	key := dctKey{nMFCC: nMFCC, nMels: nMels, norm: norm}

	c.mu.RLock()
	basis, ok := c.dct[key]
	c.mu.RUnlock()
	if ok {
		c.logger.Debug("dct basis cache hit", zap.Int("n_mfcc", nMFCC), zap.Int("n_mels", nMels))
		return basis, nil
	}

	basis, err := dct.Build(nMFCC, nMels, norm)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.dct[key]; ok {
		return prev, nil
	}
	c.dct[key] = basis
	c.logger.Debug("built dct basis",
		zap.Int("n_mfcc", nMFCC),
		zap.Int("n_mels", nMels),
		zap.Stringer("norm", norm),
	)
	return basis, nil
}

// Len returns the number of cached matrices.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mel) + len(c.dct)
}

// Reset drops every cached matrix.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.mel)
	clear(c.dct)
}
