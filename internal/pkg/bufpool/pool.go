package bufpool

import "sync"

// BlockSize is the size of every pooled buffer.
const BlockSize = 64 * 1024

var bufferPool = sync.Pool{
	New: func() any {
		val := make([]byte, BlockSize)
		return &val
	},
}

func GetBuffer() *[]byte {
	return bufferPool.Get().(*[]byte)
}

func PutBuffer(b *[]byte) {
	bufferPool.Put(b)
}
