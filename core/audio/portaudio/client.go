package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/koscakluka/ema-console/core/audio"
)

const DefaultBufferSize = 480

// Client captures from the default input device. PortAudio is initialized
// when capture starts and terminated when it stops, so the device is only
// held for the length of one capture session.
type Client struct {
	bufferSize int

	mu     sync.Mutex
	stream *portaudio.Stream
	stop   chan struct{}
	done   chan struct{}
}

func NewClient(bufferSize int) *Client {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Client{bufferSize: bufferSize}
}

func (c *Client) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream != nil {
		return fmt.Errorf("capture stream already open")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	in := make([]int16, c.bufferSize)
	stream, err := portaudio.OpenDefaultStream(audio.DefaultChannels, 0, audio.DefaultSampleRate, c.bufferSize, in)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open PortAudio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to start PortAudio stream: %w", err)
	}

	c.stream = stream
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.read(ctx, stream, in, onAudio, c.stop, c.done)

	return nil
}

func (c *Client) read(ctx context.Context, stream *portaudio.Stream, in []int16, onAudio func(audio []byte), stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		default:
			if err := stream.Read(); err != nil {
				logger.Warn("failed to read from PortAudio stream", "error", err)
				continue
			}

			audioBuffer := bytes.Buffer{}
			binary.Write(&audioBuffer, binary.LittleEndian, in)
			onAudio(audioBuffer.Bytes())
		}
	}
}

func (c *Client) StopCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return nil
	}

	close(c.stop)
	<-c.done

	var errs error
	if err := c.stream.Stop(); err != nil {
		errs = errors.Join(errs, fmt.Errorf("failed to stop PortAudio stream: %w", err))
	}
	if err := c.stream.Close(); err != nil {
		errs = errors.Join(errs, fmt.Errorf("failed to close PortAudio stream: %w", err))
	}
	if err := portaudio.Terminate(); err != nil {
		errs = errors.Join(errs, fmt.Errorf("failed to terminate PortAudio: %w", err))
	}

	c.stream = nil
	return errs
}

func (c *Client) Close() {
	_ = c.StopCapture()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}
