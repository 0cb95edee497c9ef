package deepgram

import (
	"fmt"

	"github.com/koscakluka/ema-console/core/audio"
)

type encodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

type encodingFormat string

func (e encodingFormat) Name() string { return string(e) }

const (
	encodingLinear16 encodingFormat = "linear16"
	encodingALaw     encodingFormat = "alaw"
	encodingMulaw    encodingFormat = "mulaw"
)

func convertEncoding(encoding audio.EncodingInfo) (encodingInfo, error) {
	converted := encodingInfo{}
	switch encoding.SampleRate {
	case 8000, 16000, 24000, 32000, 48000:
		converted.SampleRate = encoding.SampleRate
	default:
		return encodingInfo{}, fmt.Errorf("unsupported sample rate %d", encoding.SampleRate)
	}

	switch encoding.Format {
	case audio.EncodingLinear16:
		converted.Format = encodingLinear16
	case audio.EncodingALaw, audio.EncodingMulaw:
		if converted.SampleRate != 8000 {
			return encodingInfo{}, fmt.Errorf("unsupported sample rate %d for %s encoding", converted.SampleRate, encoding.Format.Name())
		}
		converted.Format = encodingFormat(encoding.Format.Name())
	default:
		return encodingInfo{}, fmt.Errorf("unsupported encoding %q", encoding.Format.Name())
	}

	return converted, nil
}
