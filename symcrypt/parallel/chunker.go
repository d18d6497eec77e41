package parallel

// DefaultChunkSize is the default chunk size (64 KB).
const DefaultChunkSize = 64 * 1024

// Chunker splits buffers into chunks aligned to a cipher block size.
type Chunker struct {
	chunkSize int
	blockSize int
}

// NewChunker returns a chunker whose chunk size is chunkSize rounded down to a
// multiple of blockSize (and never below one block). A non-positive chunkSize
// selects DefaultChunkSize; a non-positive blockSize is treated as 1.
func NewChunker(chunkSize, blockSize int) *Chunker {
	if blockSize <= 0 {
		blockSize = 1
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunkSize -= chunkSize % blockSize
	if chunkSize < blockSize {
		chunkSize = blockSize
	}
	return &Chunker{chunkSize: chunkSize, blockSize: blockSize}
}

// ChunkSize returns the effective chunk size.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// BlockSize returns the alignment of every chunk boundary.
func (c *Chunker) BlockSize() int { return c.blockSize }

// Chunk is a window of a buffer.
type Chunk struct {
	Index  int
	Offset int
	Data   []byte
}

// Count returns how many chunks Split produces for n bytes.
func (c *Chunker) Count(n int) int {
	return (n + c.chunkSize - 1) / c.chunkSize
}

// Split returns views of data in order. The chunks share data's storage.
// Every chunk except possibly the last is ChunkSize bytes long.
func (c *Chunker) Split(data []byte) []Chunk {
	chunks := make([]Chunk, 0, c.Count(len(data)))
	for i := 0; i < len(data); i += c.chunkSize {
		end := i + c.chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, Chunk{
			Index:  len(chunks),
			Offset: i,
			Data:   data[i:end:end],
		})
	}
	return chunks
}
