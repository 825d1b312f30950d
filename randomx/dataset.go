package randomx

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"sync"

	"github.com/mxhess/salvium-core/internal"
)

const (
	// datasetItems is the exact RandomX dataset item count.
	datasetItems = 34078719

	// datasetSize is the dataset size in bytes (just under 2080 MiB).
	datasetSize = datasetItems * 64
)

// dataset holds the full RandomX dataset for fast mode operation.
// The dataset is ~2 GB and is generated from the cache.
type dataset struct {
	data []byte // Full dataset (2+ GB)
}

// newDataset creates and initializes a new RandomX dataset from the cache.
// This is an expensive operation taking 20-30 seconds.
func newDataset(c *cache) (*dataset, error) {
	if c == nil || len(c.data) == 0 {
		return nil, fmt.Errorf("invalid cache")
	}

	ds := &dataset{
		data: make([]byte, datasetSize),
	}

	// Generate dataset items in parallel
	if err := ds.generate(c); err != nil {
		return nil, err
	}

	return ds, nil
}

// generate creates all dataset items from the cache using parallel workers.
func (ds *dataset) generate(c *cache) error {
	numWorkers := runtime.NumCPU()
	itemsPerWorker := datasetItems / uint64(numWorkers)

	var wg sync.WaitGroup
	errChan := make(chan error, numWorkers)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			start := uint64(workerID) * itemsPerWorker
			end := start + itemsPerWorker
			if workerID == numWorkers-1 {
				end = datasetItems
			}

			for item := start; item < end; item++ {
				offset := item * 64
				ds.generateItem(c, item, ds.data[offset:offset+64])
			}
		}(w)
	}

	wg.Wait()
	close(errChan)

	// Check for errors
	select {
	case err := <-errChan:
		return err
	default:
		return nil
	}
}

// datasetSuperscalarConstants seed the eight integer registers before
// SuperscalarHash expansion, the way the reference generator derives a
// distinct starting state per item from otherwise-identical programs.
var datasetSuperscalarConstants = [8]uint64{
	0x99e5d152, 0x0c2585bc, 0x9c74f2fc, 0x4e1a6a7f,
	0x5c4b4f23, 0x6a3e8a1d, 0x2f1b1c9e, 0x7d8e5f3a,
}

// generateItem creates a single dataset item by running the cache's
// precomputed SuperscalarHash programs, each preceded by an XOR of a
// cache item: the first addressed by the item number, each later one by
// the previous program's address register. This is the
// cacheAccesses-stage expansion RandomX uses to turn the 256 MiB cache
// into a 2080 MiB dataset.
func (ds *dataset) generateItem(c *cache, itemNumber uint64, output []byte) {
	computeDatasetItem(c, itemNumber, output)
}

// computeDatasetItem runs the cacheAccesses-stage SuperscalarHash
// expansion for a single dataset item directly from the cache, with no
// dependency on a *dataset receiver or its backing 2 GB buffer. Fast mode
// uses it (via generateItem) to pre-generate the whole dataset once;
// light mode calls it per iteration in place of holding the dataset in
// memory at all.
func computeDatasetItem(c *cache, itemNumber uint64, output []byte) {
	var registers [8]uint64
	registers[0] = itemNumber
	for i := 1; i < 8; i++ {
		registers[i] = itemNumber ^ datasetSuperscalarConstants[i]
	}

	registerValue := itemNumber
	for i := 0; i < cacheAccesses; i++ {
		cacheIndex := uint32(registerValue % cacheItems)
		mixBlock := c.getItem(cacheIndex)

		for r := 0; r < 8; r++ {
			val := binary.LittleEndian.Uint64(mixBlock[r*8 : r*8+8])
			registers[r] ^= val
		}

		executeSuperscalar(&registers, c.programs[i], nil)
		registerValue = registers[c.programs[i].addressReg]
	}

	for r := 0; r < 8; r++ {
		binary.LittleEndian.PutUint64(output[r*8:r*8+8], registers[r])
	}
}

// release frees the dataset resources.
func (ds *dataset) release() {
	if ds.data != nil {
		releaseDataset(ds.data)
		ds.data = nil
	}
}

// getItem returns the dataset item at the specified index.
// Each item is 64 bytes. Thread-safe for reads after initialization.
func (ds *dataset) getItem(index uint64) []byte {
	if index >= datasetItems {
		index = index % datasetItems
	}
	offset := index * 64
	return ds.data[offset : offset+64]
}

// hashBlake2b performs Blake2b hashing for dataset generation.
func hashBlake2b(input []byte) []byte {
	hash := internal.Blake2b512(input)
	return hash[:]
}
