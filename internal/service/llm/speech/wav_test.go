package speech

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go-audio/wav"
)

func TestEncodeWAV_HeaderBytes(t *testing.T) {
	pcm := []byte{0x01, 0x00, 0xff, 0x7f}
	out := EncodeWAV(pcm, Channels, SampleRate, BitsPerSample)

	if len(out) != 44+len(pcm) {
		t.Fatalf("expected %d bytes, got %d", 44+len(pcm), len(out))
	}

	le := binary.LittleEndian
	checks := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"riff id", string(out[0:4]), "RIFF"},
		{"riff size", le.Uint32(out[4:8]), uint32(36 + len(pcm))},
		{"wave id", string(out[8:12]), "WAVE"},
		{"fmt id", string(out[12:16]), "fmt "},
		{"fmt size", le.Uint32(out[16:20]), uint32(16)},
		{"format tag", le.Uint16(out[20:22]), uint16(1)},
		{"channels", le.Uint16(out[22:24]), uint16(1)},
		{"sample rate", le.Uint32(out[24:28]), uint32(24000)},
		{"byte rate", le.Uint32(out[28:32]), uint32(48000)},
		{"block align", le.Uint16(out[32:34]), uint16(2)},
		{"bits per sample", le.Uint16(out[34:36]), uint16(16)},
		{"data id", string(out[36:40]), "data"},
		{"data size", le.Uint32(out[40:44]), uint32(len(pcm))},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
	if !bytes.Equal(out[44:], pcm) {
		t.Errorf("PCM payload must follow the header unchanged")
	}
}

func TestEncodeWAV_ParsesWithStandardDecoder(t *testing.T) {
	// 0.1s of silence
	pcm := make([]byte, SampleRate/10*2)
	out := EncodeWAV(pcm, Channels, SampleRate, BitsPerSample)

	dec := wav.NewDecoder(bytes.NewReader(out))
	if !dec.IsValidFile() {
		t.Fatal("decoder rejected the file")
	}
	if dec.NumChans != 1 {
		t.Errorf("channels: got %d", dec.NumChans)
	}
	if dec.SampleRate != 24000 {
		t.Errorf("sample rate: got %d", dec.SampleRate)
	}
	if dec.BitDepth != 16 {
		t.Errorf("bit depth: got %d", dec.BitDepth)
	}
	if dec.WavAudioFormat != 1 {
		t.Errorf("format: got %d", dec.WavAudioFormat)
	}
}
