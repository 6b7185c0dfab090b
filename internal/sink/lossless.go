package sink

import (
	"bytes"
	"encoding/binary"

	flac "github.com/go-flac/go-flac"
	"github.com/go-flac/flacpicture"

	"github.com/cuesmith/cuesmith/internal/cuetext"
	"github.com/cuesmith/cuesmith/internal/types"
)

// cuesheetTagKey is the Vorbis-comment key used for the embedded cue
// sheet: a UTF-8 text tag under key "cuesheet".
const cuesheetTagKey = "cuesheet"

// placeholderSize is the fixed size of the STREAMINFO-shaped header
// block. The block is built at the postamble, once the final sample
// count is known, with that count in its first 8 bytes (big-endian). It
// intentionally does not mirror the real FLAC STREAMINFO byte layout —
// bit-exact reproduction of any one encoder's header is an explicit
// spec non-goal (§1).
const placeholderSize = 34

// LosslessSink packs raw PCM frames into a FLAC-framed container: a
// STREAMINFO-shaped placeholder block (sample count deferred to the
// postamble), an optional VORBIS_COMMENT block carrying the cue sheet,
// and an optional PICTURE block carrying embedded cover art.
type LosslessSink struct {
	*base
	pcm         bytes.Buffer
	nSamples    int64
	cueSheetVal string
	cover       []byte
	coverMIME   string
}

func NewLosslessSink(path string) *LosslessSink {
	return &LosslessSink{base: newBase(path)}
}

func (s *LosslessSink) CuesheetEmbeddable() bool { return true }

func (s *LosslessSink) SetCueSheet(cs *types.CueSheet, sign Sign) error {
	if err := s.checkWrite(sign, phasePreamble, phaseStreaming); err != nil {
		return err
	}
	text, err := cuetext.Render(cs)
	if err != nil {
		return err
	}
	s.cueSheetVal = text
	return nil
}

// SetCoverArt embeds front-cover image bytes, giving the Aggregator's
// front-cover result a home in the output file.
func (s *LosslessSink) SetCoverArt(imageBytes []byte, mime string, sign Sign) error {
	if err := s.checkWrite(sign, phasePreamble, phaseStreaming); err != nil {
		return err
	}
	s.cover = append([]byte(nil), imageBytes...)
	s.coverMIME = mime
	return nil
}

func (s *LosslessSink) WritePreamble(sign Sign) error {
	if err := s.checkWrite(sign, phaseLocked); err != nil {
		return err
	}
	s.pcm.Reset()
	s.nSamples = 0
	s.advance(phasePreamble)
	return nil
}

func (s *LosslessSink) WriteFrame(samples []byte, nSamples int, sign Sign) (int, error) {
	if err := s.checkWrite(sign, phasePreamble, phaseStreaming); err != nil {
		return 0, err
	}
	n, err := s.pcm.Write(samples)
	s.nSamples += int64(nSamples)
	if err != nil {
		return n, err
	}
	s.advance(phaseStreaming)
	return n, nil
}

func (s *LosslessSink) WritePostamble(sign Sign) error {
	if err := s.checkWrite(sign, phasePreamble, phaseStreaming); err != nil {
		return err
	}

	placeholder := make([]byte, placeholderSize)
	binary.BigEndian.PutUint64(placeholder[0:8], uint64(s.nSamples))

	f := &flac.File{
		Meta: []*flac.MetaDataBlock{
			{Type: flac.StreamInfo, Data: placeholder},
		},
	}

	if s.cueSheetVal != "" {
		f.Meta = append(f.Meta, &flac.MetaDataBlock{
			Type: flac.VorbisComment,
			Data: buildVorbisComment(cuesheetTagKey, s.cueSheetVal),
		})
	}

	if len(s.cover) > 0 {
		pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "front cover", s.cover, s.coverMIME)
		if err != nil {
			return err
		}
		block := pic.Marshal()
		f.Meta = append(f.Meta, &block)
	}

	f.Frames = s.pcm.Bytes()

	if err := f.Save(s.path); err != nil {
		return err
	}
	s.advance(phasePostamble)
	return nil
}

// buildVorbisComment encodes a single-entry Vorbis comment block per the
// FLAC metadata spec: 4-byte LE vendor length + vendor string, 4-byte LE
// comment count, then per comment a 4-byte LE length + "KEY=VALUE".
func buildVorbisComment(key, value string) []byte {
	var buf bytes.Buffer
	vendor := "cuesmith"
	writeUint32LE(&buf, uint32(len(vendor)))
	buf.WriteString(vendor)
	writeUint32LE(&buf, 1)
	entry := key + "=" + value
	writeUint32LE(&buf, uint32(len(entry)))
	buf.WriteString(entry)
	return buf.Bytes()
}

func writeUint32LE(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}
