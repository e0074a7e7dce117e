// steadyview/consumer/stdout/driver.go
package stdout

import (
	"fmt"
	"sync/atomic"

	"steadyview/consumer"
	"steadyview/steady"
)

/* ────────── public config ────────── */
type Config struct {
	Label     string `yaml:"label"`      // prefix, defaults to "view"
	PrintRaw  bool   `yaml:"print_raw"`  // echo raw samples, sentinels included
	PrintMeta bool   `yaml:"print_meta"` // echo metadata handshakes
}

/* ────────── driver ────────── */

// driver prints what a real view would render. The steady core calls
// every method from its apply loop, so no lock guards x/y.
type driver struct {
	cfg  Config
	x, y float64
}

var seq uint64

/* ────────── consumer.Driver ────────── */
func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-consumer: expected Config, got %T", raw)
	}
	if c.Label == "" {
		c.Label = "view"
	}
	d.cfg = c
	return nil
}

func (d *driver) SetOffsetX(x float64) {
	d.x = x
	d.print()
}

func (d *driver) SetOffsetY(y float64) {
	d.y = y
	d.print()
}

func (d *driver) RevertOffset() {
	d.x, d.y = 0, 0
	fmt.Printf("[%s %06d] revert -> origin\n", d.cfg.Label, atomic.AddUint64(&seq, 1))
}

func (d *driver) print() {
	fmt.Printf("[%s %06d] offset x=%.2f y=%.2f\n",
		d.cfg.Label, atomic.AddUint64(&seq, 1), d.x, d.y)
}

/* ────────── optional capabilities ────────── */
func (d *driver) HandleRawSample(x, y float64) {
	if !d.cfg.PrintRaw {
		return
	}
	fmt.Printf("[%s] raw x=%v y=%v\n", d.cfg.Label, x, y)
}

func (d *driver) HandleMetaInfo(info steady.MetaInfo) {
	if !d.cfg.PrintMeta {
		return
	}
	fmt.Printf("[%s] service %s %s (%d, %s) rate=%.1fHz\n",
		d.cfg.Label, info.ServiceAppName, info.ServiceVersionName,
		info.ServiceVersionCode, info.ServiceVersionDate, info.SensorRateHz)
}

/* ────────── auto-register ────────── */
func init() {
	consumer.Register("stdout", func() consumer.Driver { return &driver{} })
}
