package steady

import (
	"sync"
	"testing"
	"time"
)

// rawView additionally records raw samples.
type rawView struct {
	fakeView
	raws [][2]float64
}

func (v *rawView) HandleRawSample(x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.raws = append(v.raws, [2]float64{x, y})
}

func (v *rawView) rawSamples() [][2]float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([][2]float64{}, v.raws...)
}

// metaView additionally records metadata handshakes.
type metaView struct {
	fakeView
	metas []MetaInfo
}

func (v *metaView) HandleMetaInfo(info MetaInfo) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.metas = append(v.metas, info)
}

func (v *metaView) metaCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.metas)
}

func TestSentinelAxisIndependence(t *testing.T) {
	conn, src := &fakeConn{}, &fakeSource{}
	s := newTestStabilizer(t, Config{}, conn, src)
	defer s.Destroy()

	v := &rawView{}
	s.Attach(v)

	src.emit(InvalidCoord, 5, nil)
	drain(s)

	xs, ys := v.applied()
	if len(xs) != 0 {
		t.Fatalf("sentinel X must not be applied, got %v", xs)
	}
	if len(ys) != 1 || ys[0] != 5 {
		t.Fatalf("Y must be applied independently, got %v", ys)
	}

	// The raw observer still sees the sentinel, unconverted.
	raws := v.rawSamples()
	if len(raws) != 1 || raws[0] != [2]float64{InvalidCoord, 5} {
		t.Fatalf("raw sample must carry the sentinel verbatim, got %v", raws)
	}
}

func TestBothAxesSentinelAppliesNothing(t *testing.T) {
	conn, src := &fakeConn{}, &fakeSource{}
	s := newTestStabilizer(t, Config{}, conn, src)
	defer s.Destroy()

	v := &rawView{}
	s.Attach(v)

	src.emit(InvalidCoord, InvalidCoord, nil)
	drain(s)

	xs, ys := v.applied()
	if len(xs)+len(ys) != 0 {
		t.Fatalf("no offsets expected, got x=%v y=%v", xs, ys)
	}
	if len(v.rawSamples()) != 1 {
		t.Fatal("raw observer must still receive the sample")
	}
}

func TestDispatchInsertionOrder(t *testing.T) {
	conn, src := &fakeConn{}, &fakeSource{}
	s := newTestStabilizer(t, Config{}, conn, src)
	defer s.Destroy()

	var order []string
	a := &orderedView{name: "a", order: &order}
	b := &orderedView{name: "b", order: &order}
	s.Attach(a)
	s.Attach(b)

	src.emit(1, 1, nil)
	drain(s)

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("want dispatch in insertion order [a b], got %v", order)
	}
}

// orderedView appends its name on apply; the apply loop serializes the
// writes, so no lock is needed.
type orderedView struct {
	name  string
	order *[]string
}

func (v *orderedView) SetOffsetX(float64) { *v.order = append(*v.order, v.name) }
func (v *orderedView) SetOffsetY(float64) {}
func (v *orderedView) RevertOffset()      {}

func TestMetadataBatchedAcrossConsumers(t *testing.T) {
	conn, src := &fakeConn{}, &fakeSource{}
	s := newTestStabilizer(t, Config{MetaInfoInterval: 50 * time.Millisecond}, conn, src)
	defer s.Destroy()

	a, b := &metaView{}, &metaView{}
	s.Attach(a)
	s.Attach(b)

	meta := &MetaInfo{ServiceAppName: "steady", ServiceVersionCode: 7}

	// First delivery: every capable consumer of the batch receives it.
	src.emit(1, 1, meta)
	drain(s)
	if a.metaCount() != 1 || b.metaCount() != 1 {
		t.Fatalf("both consumers must receive the batch metadata, got a=%d b=%d", a.metaCount(), b.metaCount())
	}

	// The gate advanced once for the whole batch: an immediate second
	// dispatch delivers nothing.
	src.emit(2, 2, meta)
	drain(s)
	if a.metaCount() != 1 || b.metaCount() != 1 {
		t.Fatalf("metadata redelivered within the interval, got a=%d b=%d", a.metaCount(), b.metaCount())
	}

	// After the interval it flows again.
	time.Sleep(60 * time.Millisecond)
	src.emit(3, 3, meta)
	drain(s)
	if a.metaCount() != 2 || b.metaCount() != 2 {
		t.Fatalf("metadata must resume after the interval, got a=%d b=%d", a.metaCount(), b.metaCount())
	}
}

func TestMetadataAbsentKeepsGateOpen(t *testing.T) {
	conn, src := &fakeConn{}, &fakeSource{}
	s := newTestStabilizer(t, Config{MetaInfoInterval: time.Hour}, conn, src)
	defer s.Destroy()

	v := &metaView{}
	s.Attach(v)

	src.emit(1, 1, nil) // no metadata on board
	drain(s)
	if v.metaCount() != 0 {
		t.Fatal("no metadata to deliver")
	}

	// The gate did not advance, so the next carrying sample delivers.
	src.emit(2, 2, &MetaInfo{ServiceAppName: "steady"})
	drain(s)
	if v.metaCount() != 1 {
		t.Fatalf("want delivery on the first carrying sample, got %d", v.metaCount())
	}
}

func TestConcurrentDeliveryLosesNothing(t *testing.T) {
	conn, src := &fakeConn{}, &fakeSource{}
	s := newTestStabilizer(t, Config{MetaInfoInterval: time.Hour}, conn, src)
	defer s.Destroy()

	views := []*metaView{{}, {}, {}, {}}
	for _, v := range views {
		s.Attach(v)
	}

	// Sources may invoke the handler from several goroutines at once,
	// one per partition or stream.
	const emitters, perEmitter = 4, 200
	meta := &MetaInfo{ServiceAppName: "steady"}
	var wg sync.WaitGroup
	for g := 0; g < emitters; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perEmitter; i++ {
				src.emit(1, 2, meta)
			}
		}()
	}
	wg.Wait()
	drain(s)

	want := emitters * perEmitter
	for i, v := range views {
		xs, ys := v.applied()
		if len(xs) != want || len(ys) != want {
			t.Fatalf("consumer %d: want %d applies per axis, got x=%d y=%d", i, want, len(xs), len(ys))
		}
		if v.metaCount() != 1 {
			t.Fatalf("consumer %d: want exactly 1 metadata delivery within the interval, got %d", i, v.metaCount())
		}
	}
}

func TestMetadataSkipsIncapableConsumers(t *testing.T) {
	conn, src := &fakeConn{}, &fakeSource{}
	s := newTestStabilizer(t, Config{}, conn, src)
	defer s.Destroy()

	plain := &fakeView{}
	capable := &metaView{}
	s.Attach(plain)
	s.Attach(capable)

	src.emit(1, 1, &MetaInfo{ServiceAppName: "steady"})
	drain(s)

	if capable.metaCount() != 1 {
		t.Fatalf("capable consumer must receive metadata, got %d", capable.metaCount())
	}
	if xs, _ := plain.applied(); len(xs) != 1 {
		t.Fatalf("plain consumer still receives offsets, got %v", xs)
	}
}
