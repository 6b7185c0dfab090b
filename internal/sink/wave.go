package sink

import (
	"encoding/binary"
	"os"

	"github.com/cuesmith/cuesmith/internal/types"
)

// WaveSink writes a canonical 16-bit/44.1kHz/stereo RIFF/WAVE file.
// encoding/binary is used directly rather than a general-purpose WAV
// encoder because streaming sectors one at a time needs a
// placeholder-then-rewrite header, and no library in the pack supports
// that (go-audio/wav buffers the whole PCM buffer and writes the header
// once — DESIGN.md).
type WaveSink struct {
	*base
	f            *os.File
	bytesWritten int64
}

const (
	waveHeaderSize    = 44
	waveRiffSizeOff   = 4
	waveDataSizeOff   = 40
	waveSampleRate    = 44100
	waveChannels      = 2
	waveBitsPerSample = 16
)

// NewWaveSink returns a sink for path without touching the file;
// WritePreamble creates (truncating) it under the lock.
func NewWaveSink(path string) *WaveSink {
	return &WaveSink{base: newBase(path)}
}

func (s *WaveSink) CuesheetEmbeddable() bool { return false }

// SetCueSheet always fails: WAVE carries no cue-sheet container.
func (s *WaveSink) SetCueSheet(_ *types.CueSheet, sign Sign) error {
	if err := s.checkWrite(sign, phasePreamble, phaseStreaming); err != nil {
		return err
	}
	return &types.UnsupportedError{Msg: "WAVE sink cannot embed a cue sheet"}
}

func (s *WaveSink) WritePreamble(sign Sign) error {
	if err := s.checkWrite(sign, phaseLocked); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	s.f = f

	var hdr [waveHeaderSize]byte
	copy(hdr[0:4], "RIFF")
	// hdr[4:8] (RIFF size) is rewritten in WritePostamble.
	copy(hdr[8:16], "WAVEfmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16) // fmt chunk length
	binary.LittleEndian.PutUint16(hdr[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], waveChannels)
	binary.LittleEndian.PutUint32(hdr[24:28], waveSampleRate)
	byteRate := waveSampleRate * waveChannels * (waveBitsPerSample / 8)
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(byteRate))
	blockAlign := waveChannels * (waveBitsPerSample / 8)
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], waveBitsPerSample)
	copy(hdr[36:40], "data")
	// hdr[40:44] (data chunk size) is rewritten in WritePostamble.

	if _, err := s.f.Write(hdr[:]); err != nil {
		_ = s.f.Close()
		return err
	}
	s.bytesWritten = waveHeaderSize
	s.advance(phasePreamble)
	return nil
}

func (s *WaveSink) WriteFrame(samples []byte, nSamples int, sign Sign) (int, error) {
	if err := s.checkWrite(sign, phasePreamble, phaseStreaming); err != nil {
		return 0, err
	}
	n, err := s.f.Write(samples)
	s.bytesWritten += int64(n)
	if err != nil {
		return n, err
	}
	s.advance(phaseStreaming)
	return n, nil
}

func (s *WaveSink) WritePostamble(sign Sign) error {
	if err := s.checkWrite(sign, phasePreamble, phaseStreaming); err != nil {
		return err
	}
	total := s.bytesWritten
	var sizeBuf [4]byte

	binary.LittleEndian.PutUint32(sizeBuf[:], uint32(total-8))
	if _, err := s.f.WriteAt(sizeBuf[:], waveRiffSizeOff); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(sizeBuf[:], uint32(total-waveHeaderSize))
	if _, err := s.f.WriteAt(sizeBuf[:], waveDataSizeOff); err != nil {
		return err
	}
	s.advance(phasePostamble)
	return s.f.Close()
}
