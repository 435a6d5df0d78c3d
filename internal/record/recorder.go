// Package record captures microphone audio with PortAudio.
package record

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"voxd/internal/domain"
)

const framesPerBuffer = 1024

// Recorder buffers microphone samples in memory between Start and Stop.
// The buffer is bounded by the configured maximum recording length; once
// full, the oldest samples are dropped so a forgotten hotkey never grows
// memory without limit.
type Recorder struct {
	sampleRate int
	channels   int
	maxSamples int
	logger     *zap.Logger

	mu        sync.Mutex
	recording bool
	samples   []float32
	stop      chan struct{}
	done      chan struct{}
}

// New creates a recorder. maxSeconds <= 0 means unbounded.
func New(sampleRate, channels, maxSeconds int, logger *zap.Logger) *Recorder {
	maxSamples := 0
	if maxSeconds > 0 {
		maxSamples = maxSeconds * sampleRate * channels
	}
	return &Recorder{
		sampleRate: sampleRate,
		channels:   channels,
		maxSamples: maxSamples,
		logger:     logger,
	}
}

// IsAvailable probes whether a default input device can be resolved.
func (r *Recorder) IsAvailable() bool {
	if err := portaudio.Initialize(); err != nil {
		return false
	}
	defer portaudio.Terminate()
	dev, err := portaudio.DefaultInputDevice()
	return err == nil && dev != nil && dev.MaxInputChannels > 0
}

// Start opens the input stream and begins buffering samples.
func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return fmt.Errorf("recorder already running")
	}
	r.recording = true
	r.samples = r.samples[:0]
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	r.mu.Unlock()

	go r.captureLoop()
	return nil
}

// Stop ends capturing and returns everything buffered since Start.
// Returns nil when the recorder was not running.
func (r *Recorder) Stop() []float32 {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil
	}
	r.recording = false
	close(r.stop)
	done := r.done
	r.mu.Unlock()

	<-done

	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float32, len(r.samples))
	copy(out, r.samples)
	r.samples = r.samples[:0]
	return out
}

func (r *Recorder) captureLoop() {
	defer close(r.done)

	if err := portaudio.Initialize(); err != nil {
		r.logger.Error("portaudio init failed", zap.Error(err))
		return
	}
	defer portaudio.Terminate()

	in := make([]float32, framesPerBuffer*r.channels)
	stream, err := portaudio.OpenDefaultStream(r.channels, 0, float64(r.sampleRate), framesPerBuffer, in)
	if err != nil {
		r.logger.Error("open input stream failed", zap.Error(err))
		return
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		r.logger.Error("start input stream failed", zap.Error(err))
		return
	}
	defer stream.Stop()

	for {
		select {
		case <-r.stop:
			return
		default:
		}

		if err := stream.Read(); err != nil {
			// Overflows happen when the consumer briefly stalls; keep going.
			r.logger.Debug("stream read", zap.Error(err))
			continue
		}
		r.append(in)
	}
}

func (r *Recorder) append(chunk []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, chunk...)
	if r.maxSamples > 0 && len(r.samples) > r.maxSamples {
		excess := len(r.samples) - r.maxSamples
		r.samples = append(r.samples[:0], r.samples[excess:]...)
	}
}

var _ domain.Recorder = (*Recorder)(nil)
