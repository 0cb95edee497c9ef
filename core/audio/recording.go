package audio

import (
	"bytes"
	"encoding/binary"
	"time"
)

// Recording is one finished capture: the concatenated raw frames of a single
// capture session together with their encoding.
type Recording struct {
	Data         []byte
	EncodingInfo EncodingInfo
	CapturedAt   time.Time
}

func NewRecording(chunks [][]byte, encodingInfo EncodingInfo, capturedAt time.Time) *Recording {
	if encodingInfo.IsZero() {
		encodingInfo = GetDefaultEncodingInfo()
	}

	size := 0
	for _, chunk := range chunks {
		size += len(chunk)
	}
	data := make([]byte, 0, size)
	for _, chunk := range chunks {
		data = append(data, chunk...)
	}

	return &Recording{Data: data, EncodingInfo: encodingInfo, CapturedAt: capturedAt}
}

func (r *Recording) Duration() time.Duration {
	if r == nil {
		return 0
	}
	bytesPerSecond := r.EncodingInfo.BytesPerSecond()
	if bytesPerSecond == 0 {
		return 0
	}
	return time.Duration(len(r.Data)) * time.Second / time.Duration(bytesPerSecond)
}

func (r *Recording) IsEmpty() bool { return r == nil || len(r.Data) == 0 }

// WAV wraps the raw frames in a RIFF/WAVE container so the recording can be
// uploaded as a regular audio file.
func (r *Recording) WAV() []byte {
	if r == nil {
		return nil
	}

	format := r.EncodingInfo.Format
	bytesPerSample := format.ByteSize()
	if bytesPerSample <= 0 {
		bytesPerSample = 2
	}
	blockAlign := uint16(bytesPerSample * DefaultChannels)

	buf := bytes.Buffer{}
	buf.Grow(44 + len(r.Data))
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(r.Data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, format.waveFormatTag())
	binary.Write(&buf, binary.LittleEndian, uint16(DefaultChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(r.EncodingInfo.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(r.EncodingInfo.SampleRate)*uint32(blockAlign))
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, uint16(bytesPerSample*8))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(r.Data)))
	buf.Write(r.Data)

	return buf.Bytes()
}
