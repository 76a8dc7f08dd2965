package packet

import (
	"bytes"
	"sync"
)

// bufferPool recycles the staging buffers used to frame packet bodies and
// properties regions before their length prefixes are known.
var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	// Oversized buffers are dropped rather than pinned in the pool.
	if buf.Cap() <= maxBinaryLength {
		buf.Reset()
		bufferPool.Put(buf)
	}
}
