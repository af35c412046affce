package chain

import "fmt"

// Batch is an inclusive index range.
type Batch struct {
	From int
	To   int
}

// SplitBatches splits n items into consecutive batches of at most size.
func SplitBatches(n, size int) ([]Batch, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if n < 0 {
		return nil, fmt.Errorf("item count must be non-negative")
	}

	batches := make([]Batch, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size - 1
		if end >= n {
			end = n - 1
		}
		batches = append(batches, Batch{From: start, To: end})
	}
	return batches, nil
}
