package document

import (
	"runtime"
	"sync"

	"github.com/inodb/vepvcf/internal/csq"
	"github.com/inodb/vepvcf/internal/vcf"
)

// WorkItem names a record to decode.
type WorkItem struct {
	Seq   int
	Index int
}

// WorkResult holds the decoded annotations for a single record.
type WorkResult struct {
	Seq     int
	Index   int
	Variant *vcf.Variant
	Rows    []csq.Row
	Err     error
}

// ParallelAnnotations decodes records using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used. Ingest must not be called
// until the returned channel is closed.
func (d *Document) ParallelAnnotations(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				v, _ := d.Record(item.Index)
				rows, err := d.Annotations(item.Index)
				results <- WorkResult{
					Seq:     item.Seq,
					Index:   item.Index,
					Variant: v,
					Rows:    rows,
					Err:     err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// AnnotateAll decodes every record with workers goroutines and calls fn in
// record order. Records without a CSQ key are delivered with an error
// matching ErrNoAnnotationPresent.
func (d *Document) AnnotateAll(workers int, fn func(WorkResult) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	items := make(chan WorkItem, 2*workers)
	go func() {
		defer close(items)
		for i := range d.records {
			items <- WorkItem{Seq: i, Index: i}
		}
	}()

	return OrderedCollect(d.ParallelAnnotations(items, workers), fn)
}
