package audio

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gordonklaus/portaudio"
)

// PortAudioOpener negotiates endpoints against real hardware through
// PortAudio blocking streams. One opener serves all four endpoints; Close
// terminates the PortAudio runtime and must come after every device is closed.
type PortAudioOpener struct{}

func NewPortAudioOpener() (*PortAudioOpener, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	return &PortAudioOpener{}, nil
}

func (o *PortAudioOpener) Close() error {
	return portaudio.Terminate()
}

// Open walks the negotiation steps in a fixed order so a failure names the
// exact step the hardware rejected: device, format, channels, rate, period
// size, buffer size, then the software start/stop thresholds.
func (o *PortAudioOpener) Open(p HWParams) (Device, error) {
	info, err := resolveDevice(p.DeviceName, p.Direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}

	// Interleaved access is the only mode the blocking API offers, so there
	// is nothing to negotiate for the access step.

	params := blockingParams(info, p)

	scratch := make([]int16, p.PeriodSize*p.Channels)
	probe := params
	probe.SampleRate = info.DefaultSampleRate
	if err := portaudio.IsFormatSupported(probe, &scratch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetFormat, err)
	}

	if p.Direction == Capture && info.MaxInputChannels < p.Channels {
		return nil, fmt.Errorf("%w: device has %d input channels, want %d",
			ErrSetChannels, info.MaxInputChannels, p.Channels)
	}
	if p.Direction == Playback && info.MaxOutputChannels < p.Channels {
		return nil, fmt.Errorf("%w: device has %d output channels, want %d",
			ErrSetChannels, info.MaxOutputChannels, p.Channels)
	}

	if err := portaudio.IsFormatSupported(params, &scratch); err != nil {
		return nil, fmt.Errorf("%w: rate %d: %v", ErrSetRate, p.SampleRate, err)
	}

	if p.PeriodSize <= 0 {
		return nil, fmt.Errorf("%w: period size %d", ErrSetPeriodSize, p.PeriodSize)
	}
	if p.BufferSize != 4*p.PeriodSize {
		return nil, fmt.Errorf("%w: buffer size %d is not 4x period size %d",
			ErrSetBufferSize, p.BufferSize, p.PeriodSize)
	}

	if p.StartThreshold != 0 || p.StopThreshold != 0 {
		if p.StartThreshold < 0 || p.StartThreshold > p.BufferSize {
			return nil, fmt.Errorf("%w: threshold %d exceeds buffer %d",
				ErrSetStartThreshold, p.StartThreshold, p.BufferSize)
		}
		if p.StopThreshold < 0 || p.StopThreshold > p.BufferSize {
			return nil, fmt.Errorf("%w: threshold %d exceeds buffer %d",
				ErrSetStopThreshold, p.StopThreshold, p.BufferSize)
		}
		// PortAudio has no start/stop thresholds; the closest control is the
		// suggested latency, sized to the frames the threshold asks for.
		latency := time.Duration(p.StartThreshold) * time.Second / time.Duration(p.SampleRate)
		if p.Direction == Playback {
			params.Output.Latency = latency
		} else {
			params.Input.Latency = latency
		}
	}

	d := &paDevice{
		dir:    p.Direction,
		frames: scratch,
	}
	// The registered slice is both the read target and the write source of
	// the blocking stream.
	stream, err := portaudio.OpenStream(params, &d.frames)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("%w: start: %v", ErrOpen, err)
	}
	d.stream = stream
	return d, nil
}

func resolveDevice(name string, dir Direction) (*portaudio.DeviceInfo, error) {
	if name == "" || name == "default" {
		if dir == Capture {
			return portaudio.DefaultInputDevice()
		}
		return portaudio.DefaultOutputDevice()
	}
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if !strings.Contains(info.Name, name) {
			continue
		}
		if dir == Capture && info.MaxInputChannels > 0 {
			return info, nil
		}
		if dir == Playback && info.MaxOutputChannels > 0 {
			return info, nil
		}
	}
	return nil, fmt.Errorf("no %s device matches %q", dir, name)
}

func blockingParams(info *portaudio.DeviceInfo, p HWParams) portaudio.StreamParameters {
	var params portaudio.StreamParameters
	if p.Direction == Capture {
		params.Input.Device = info
		params.Input.Channels = p.Channels
		params.Input.Latency = info.DefaultLowInputLatency
	} else {
		params.Output.Device = info
		params.Output.Channels = p.Channels
		params.Output.Latency = info.DefaultLowOutputLatency
	}
	params.SampleRate = float64(p.SampleRate)
	params.FramesPerBuffer = p.PeriodSize
	return params
}

// paDevice adapts one blocking PortAudio stream to the Device contract.
// S16LE is PortAudio's native int16 layout, so moving between the byte-wise
// period buffer and the registered frame slice is a plain per-sample copy.
type paDevice struct {
	stream *portaudio.Stream
	frames []int16
	dir    Direction
}

func (d *paDevice) ReadPeriod(buf []byte, frames int) (int, error) {
	if err := d.stream.Read(); err != nil {
		if errors.Is(err, portaudio.InputOverflowed) {
			return 0, ErrOverrun
		}
		return 0, err
	}
	int16ToBytes(d.frames[:frames], buf)
	return frames, nil
}

func (d *paDevice) WritePeriod(buf []byte, frames int) (int, error) {
	bytesToInt16(buf, d.frames[:frames])
	if err := d.stream.Write(); err != nil {
		if errors.Is(err, portaudio.OutputUnderflowed) {
			return 0, ErrUnderrun
		}
		return 0, err
	}
	return frames, nil
}

func (d *paDevice) Prepare() error {
	// Stop discards whatever is stuck in the ring buffer; Start makes the
	// stream ready for the next period.
	d.stream.Stop()
	return d.stream.Start()
}

func (d *paDevice) Close() error {
	d.stream.Abort()
	return d.stream.Close()
}

func bytesToInt16(b []byte, out []int16) {
	for i := range out {
		out[i] = int16(b[i*2]) | int16(b[i*2+1])<<8
	}
}

func int16ToBytes(in []int16, b []byte) {
	for i, s := range in {
		b[i*2] = byte(s)
		b[i*2+1] = byte(s >> 8)
	}
}
