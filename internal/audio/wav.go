package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Info describes the PCM format of a WAV file.
type Info struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	ByteRate      int
	DataBytes     int64
}

// DurationMS returns the audio length in milliseconds.
func (i Info) DurationMS() int64 {
	if i.ByteRate <= 0 {
		return 0
	}
	return i.DataBytes * 1000 / int64(i.ByteRate)
}

// Probe reads the header of a WAV file and returns its format info. It walks
// the RIFF chunk list, so files with extra chunks (LIST, fact) are handled.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open wav file: %w", err)
	}
	defer f.Close()
	return probe(f)
}

func probe(r io.ReadSeeker) (Info, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Info{}, fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return Info{}, fmt.Errorf("not a RIFF/WAVE file")
	}

	var info Info
	haveFmt := false

	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return Info{}, fmt.Errorf("failed to read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))

		switch id {
		case "fmt ":
			var fmtChunk [16]byte
			if _, err := io.ReadFull(r, fmtChunk[:]); err != nil {
				return Info{}, fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			info.Channels = int(binary.LittleEndian.Uint16(fmtChunk[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			info.ByteRate = int(binary.LittleEndian.Uint32(fmtChunk[8:12]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(fmtChunk[14:16]))
			haveFmt = true
			if rest := size - 16; rest > 0 {
				if _, err := r.Seek(rest, io.SeekCurrent); err != nil {
					return Info{}, fmt.Errorf("failed to skip fmt extension: %w", err)
				}
			}
		case "data":
			info.DataBytes = size
			// data is the last chunk we need; stop walking
			if haveFmt {
				return info, nil
			}
			if _, err := r.Seek(size+size%2, io.SeekCurrent); err != nil {
				return Info{}, fmt.Errorf("failed to skip data chunk: %w", err)
			}
		default:
			// Chunks are word-aligned; odd sizes carry a pad byte.
			if _, err := r.Seek(size+size%2, io.SeekCurrent); err != nil {
				return Info{}, fmt.Errorf("failed to skip %q chunk: %w", id, err)
			}
		}
	}

	if !haveFmt {
		return Info{}, fmt.Errorf("wav file has no fmt chunk")
	}
	return info, nil
}

// DurationMS probes a WAV file and returns its duration in milliseconds.
func DurationMS(path string) (int64, error) {
	info, err := Probe(path)
	if err != nil {
		return 0, err
	}
	return info.DurationMS(), nil
}
