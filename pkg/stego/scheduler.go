package stego

import (
	"crypto/aes"
	"sync"
)

// Chunk is one worker's share of the payload. It carries everything the
// worker needs, so nothing mutable is shared between workers.
type Chunk struct {
	// Start and End delimit the payload bytes [Start, End).
	Start, End int
	// Unit is the logical stream unit holding the first bit of Start.
	Unit int
	// Blocks is the number of cipher blocks preceding Start.
	Blocks uint64
}

func (c Chunk) Len() int {
	return c.End - c.Start
}

// partition splits [0, size) into at most workers contiguous ranges. Every
// range but the last is a multiple of align; the last one absorbs the rest.
// Empty ranges are dropped.
func partition(size, workers, align int) []Chunk {
	if workers <= 0 {
		workers = 1
	}
	if align <= 0 {
		align = 1
	}
	base := size / workers / align * align

	chunks := make([]Chunk, 0, workers)
	start := 0
	for i := 0; i < workers-1 && base > 0; i++ {
		chunks = append(chunks, Chunk{Start: start, End: start + base})
		start += base
	}
	if start < size {
		chunks = append(chunks, Chunk{Start: start, End: size})
	}
	return chunks
}

// schedule partitions a payload that begins dataOffset bytes into the stream
// and derives each chunk's cursor and counter offsets in closed form.
func schedule(size, workers int, encrypted bool, dataOffset int, mode Mode) []Chunk {
	align := 1
	if encrypted {
		align = aes.BlockSize
	}
	chunks := partition(size, workers, align)
	for i := range chunks {
		chunks[i].Unit = (dataOffset + chunks[i].Start) * mode.unitsPerByte()
		chunks[i].Blocks = uint64(chunks[i].Start / aes.BlockSize)
	}
	return chunks
}

// dispatch runs work for every chunk: all but the last on their own
// goroutine, the last one on the caller. It returns once all have finished.
func dispatch(chunks []Chunk, work func(Chunk)) {
	if len(chunks) == 0 {
		return
	}
	last := len(chunks) - 1

	var wg sync.WaitGroup
	for _, c := range chunks[:last] {
		wg.Add(1)
		go func(c Chunk) {
			defer wg.Done()
			work(c)
		}(c)
	}
	work(chunks[last])
	wg.Wait()
}
