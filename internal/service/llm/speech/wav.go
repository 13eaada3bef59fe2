package speech

import (
	"bytes"
	"encoding/binary"
)

// PCM format produced by the TTS backend.
const (
	Channels      = 1
	SampleRate    = 24000
	BitsPerSample = 16

	wavHeaderSize = 44
	pcmFormatTag  = 1
)

// EncodeWAV prefixes little-endian 16-bit PCM with a canonical 44-byte RIFF/WAVE header.
func EncodeWAV(pcm []byte, channels, sampleRate, bitsPerSample int) []byte {
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(pcm)))
	le := binary.LittleEndian

	buf.WriteString("RIFF")
	binary.Write(buf, le, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, le, uint32(16))
	binary.Write(buf, le, uint16(pcmFormatTag))
	binary.Write(buf, le, uint16(channels))
	binary.Write(buf, le, uint32(sampleRate))
	binary.Write(buf, le, uint32(byteRate))
	binary.Write(buf, le, uint16(blockAlign))
	binary.Write(buf, le, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(buf, le, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
