package msgrender

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one exporter is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ExporterPool bounds the number of concurrent PDF exporters, each owning
// its own browser. Exporters are created lazily on first acquire.
type ExporterPool struct {
	size      int
	newFn     func() *PDFExporter
	exporters []*PDFExporter
	sem       chan *PDFExporter
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewExporterPool creates a pool with capacity for n exporters built with opts.
func NewExporterPool(n int, opts ...ExporterOption) *ExporterPool {
	if n < 1 {
		n = 1
	}
	return &ExporterPool{
		size:      n,
		newFn:     func() *PDFExporter { return NewPDFExporter(opts...) },
		exporters: make([]*PDFExporter, 0, n),
		sem:       make(chan *PDFExporter, n),
	}
}

// Acquire gets an exporter, creating one if capacity remains. Blocks until
// one is released or ctx is done.
func (p *ExporterPool) Acquire(ctx context.Context) (*PDFExporter, error) {
	select {
	case e, ok := <-p.sem:
		if !ok {
			return nil, ErrExporterClosed
		}
		return e, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrExporterClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		e := p.newFn()

		p.mu.Lock()
		p.exporters = append(p.exporters, e)
		p.mu.Unlock()
		return e, nil
	}
	p.mu.Unlock()

	select {
	case e, ok := <-p.sem:
		if !ok {
			return nil, ErrExporterClosed
		}
		return e, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns an exporter to the pool.
// The lock is held while sending; the channel has room for every exporter.
func (p *ExporterPool) Release(e *PDFExporter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- e
}

// Close releases all browsers.
// Returns an aggregated error if several exporters fail to close.
func (p *ExporterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	exporters := p.exporters
	p.mu.Unlock()

	var errs []error
	for _, e := range exporters {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ExporterPool) Size() int {
	return p.size
}

// ExportJob is one document to export.
type ExportJob struct {
	Name     string
	Document string
	Options  ExportOptions
}

// ExportResult is the outcome of one ExportJob.
type ExportResult struct {
	Name string
	PDF  []byte
	Err  error
}

// ExportAll exports jobs concurrently, at most Size at a time.
// Results are returned in job order.
func (p *ExporterPool) ExportAll(ctx context.Context, jobs []ExportJob) []ExportResult {
	results := make([]ExportResult, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = ExportResult{Name: job.Name}

			e, err := p.Acquire(ctx)
			if err != nil {
				results[i].Err = err
				return
			}
			defer p.Release(e)
			results[i].PDF, results[i].Err = e.Export(ctx, job.Document, job.Options)
		}()
	}
	wg.Wait()
	return results
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return min(max(n, MinPoolSize), MaxPoolSize)
}
