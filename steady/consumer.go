package steady

import (
	"math"
	"time"
)

// InvalidCoord marks a coordinate the service could not provide.
// It is a domain signal, not a literal offset: it is never applied to a
// consumer, but raw-sample observers receive it verbatim.
const InvalidCoord float64 = math.MinInt32

// Sample is one position-offset event from the service. At is the receipt
// instant and carries the monotonic clock reading; sources stamp it
// themselves rather than trusting producer clocks. Meta is nil unless the
// event carried the service's metadata handshake.
type Sample struct {
	X, Y float64
	At   time.Time
	Meta *MetaInfo
}

// MetaInfo is the service self-description delivered alongside samples.
type MetaInfo struct {
	ServiceAppName     string
	ServiceVersionCode int
	ServiceVersionName string
	ServiceVersionDate string // YYYY-MM-DD
	SensorRateHz       float64
}

// Consumer receives translation offsets. Handles must be comparable
// (in practice pointers): registry identity is interface equality.
//
// All methods are invoked from the single apply goroutine, never
// concurrently.
type Consumer interface {
	// SetOffsetX applies a horizontal offset. Never called with InvalidCoord.
	SetOffsetX(x float64)
	// SetOffsetY applies a vertical offset. Never called with InvalidCoord.
	SetOffsetY(y float64)
	// RevertOffset returns both axes to the origin.
	RevertOffset()
}

// RawSampleObserver is optional; consumers that implement it additionally
// receive every sample unconverted, sentinels included.
type RawSampleObserver interface {
	HandleRawSample(x, y float64)
}

// MetaInfoObserver is optional; consumers that implement it receive the
// service metadata at most once per metadata interval.
type MetaInfoObserver interface {
	HandleMetaInfo(info MetaInfo)
}
