package audio

import (
	"io"
	"log/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeResult struct {
	n   int
	err error
}

// fakeDevice plays back scripted transfer results; an exhausted script means
// full-period success.
type fakeDevice struct {
	reads    []fakeResult
	writes   []fakeResult
	readCnt  int
	writeCnt int
	prepares int
	closes   int
	closeErr error
}

func (d *fakeDevice) ReadPeriod(buf []byte, frames int) (int, error) {
	d.readCnt++
	if len(d.reads) > 0 {
		r := d.reads[0]
		d.reads = d.reads[1:]
		return r.n, r.err
	}
	return frames, nil
}

func (d *fakeDevice) WritePeriod(buf []byte, frames int) (int, error) {
	d.writeCnt++
	if len(d.writes) > 0 {
		r := d.writes[0]
		d.writes = d.writes[1:]
		return r.n, r.err
	}
	return frames, nil
}

func (d *fakeDevice) Prepare() error {
	d.prepares++
	return nil
}

func (d *fakeDevice) Close() error {
	d.closes++
	return d.closeErr
}

// fakeOpener fails with the scripted errors first, then hands out devices.
type fakeOpener struct {
	errs    []error
	failErr error // when set, every open fails with it
	opens   int
	devs    []*fakeDevice
}

func (o *fakeOpener) Open(p HWParams) (Device, error) {
	o.opens++
	if o.failErr != nil {
		return nil, o.failErr
	}
	if len(o.errs) > 0 {
		err := o.errs[0]
		o.errs = o.errs[1:]
		return nil, err
	}
	d := &fakeDevice{}
	o.devs = append(o.devs, d)
	return d, nil
}

type fakeToken bool

func (t fakeToken) Cancelled() bool { return bool(t) }

func testParams() HWParams {
	return HWParams{
		DeviceName: "fake",
		Direction:  Capture,
		Channels:   1,
		SampleRate: 8000,
		PeriodSize: 4,
		BufferSize: 16,
	}
}
