package bridge

import "github.com/arm-software/astcenc-bridge/astc"

// Request describes one encode. It is passed by value and never modified after
// submission.
type Request struct {
	// ID correlates log records. The dispatcher assigns one when empty.
	ID string

	Source      string
	BlockSize   int32
	Quality     int32
	Channels    int32
	ThreadCount int32
}

const (
	DefaultBlockSize   = 8
	DefaultChannels    = 4
	DefaultThreadCount = 8
)

// NewRequest returns a request for src with the default 8x8 footprint, medium
// quality, four channels and eight encoder threads.
func NewRequest(src string) Request {
	return Request{
		Source:      src,
		BlockSize:   DefaultBlockSize,
		Quality:     int32(astc.EncodeMedium),
		Channels:    DefaultChannels,
		ThreadCount: DefaultThreadCount,
	}
}

// Footprint returns the block footprint the encoder selects for r.
func (r Request) Footprint() astc.Footprint { return astc.Square(int(r.BlockSize)) }
