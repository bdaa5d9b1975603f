// Package container stores conversion output in a compact binary form and
// renders it back the way a palette-per-scanline display would.
//
// Layout, big endian:
//
//	"BPAL" version:u8 width:u16 height:u16
//	4 x { id:u8 count:u8 count*(r,g,b) }
//	width*height palette indices, one byte each
//	ceil(height/4) bytes of scanline bands, 2 bits per scanline
//
// Encode can wrap the whole record in a zstd frame; Decode accepts both.
package container

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/setanarut/bandpal"
)

var (
	ErrBadMagic           = errors.New("not a bandpal container")
	ErrUnsupportedVersion = errors.New("unsupported container version")
	ErrCorrupt            = errors.New("corrupt container")
)

var (
	magic     = []byte("BPAL")
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// MaxDimension is the largest width or height the header can hold.
const MaxDimension = 0xffff

// Encode writes out to w. When compressed is set the record is written as a
// single zstd frame.
func Encode(w io.Writer, out *bandpal.Output, compressed bool) error {
	if err := Validate(out); err != nil {
		return err
	}
	if !compressed {
		return encodeRaw(w, out)
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := encodeRaw(enc, out); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func encodeRaw(w io.Writer, out *bandpal.Output) error {
	bw := bufio.NewWriter(w)
	bw.Write(magic)
	bw.WriteByte(byte(out.Version))
	var dims [4]byte
	binary.BigEndian.PutUint16(dims[0:], uint16(out.Width))
	binary.BigEndian.PutUint16(dims[2:], uint16(out.Height))
	bw.Write(dims[:])
	for _, p := range out.Palettes {
		bw.WriteByte(p.ID)
		bw.WriteByte(byte(len(p.Colors)))
		for _, c := range p.Colors {
			bw.Write([]byte{byte(c >> 16), byte(c >> 8), byte(c)})
		}
	}
	bw.Write(out.Bitmap)
	bw.Write(PackMap(out.Map))
	return bw.Flush()
}

// Decode reads a container written by Encode, compressed or not.
func Decode(r io.Reader) (*bandpal.Output, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		return decodeRaw(bufio.NewReader(dec))
	}
	return decodeRaw(br)
}

func decodeRaw(r *bufio.Reader) (*bandpal.Output, error) {
	var head [9]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if !bytes.Equal(head[:4], magic) {
		return nil, ErrBadMagic
	}
	out := &bandpal.Output{
		Version: int(head[4]),
		Width:   int(binary.BigEndian.Uint16(head[5:])),
		Height:  int(binary.BigEndian.Uint16(head[7:])),
	}
	if out.Version != bandpal.FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, out.Version)
	}
	for b := range out.Palettes {
		var ph [2]byte
		if _, err := io.ReadFull(r, ph[:]); err != nil {
			return nil, fmt.Errorf("%w: palette %d: %v", ErrCorrupt, b, err)
		}
		rgb := make([]byte, int(ph[1])*3)
		if _, err := io.ReadFull(r, rgb); err != nil {
			return nil, fmt.Errorf("%w: palette %d colors: %v", ErrCorrupt, b, err)
		}
		p := bandpal.OutputPalette{ID: ph[0], Colors: make([]uint32, ph[1])}
		for i := range p.Colors {
			p.Colors[i] = uint32(rgb[i*3])<<16 | uint32(rgb[i*3+1])<<8 | uint32(rgb[i*3+2])
		}
		out.Palettes[b] = p
	}
	out.Bitmap = make([]uint8, out.Width*out.Height)
	if _, err := io.ReadFull(r, out.Bitmap); err != nil {
		return nil, fmt.Errorf("%w: bitmap: %v", ErrCorrupt, err)
	}
	packed := make([]byte, PackedMapLen(out.Height))
	if _, err := io.ReadFull(r, packed); err != nil {
		return nil, fmt.Errorf("%w: scanline map: %v", ErrCorrupt, err)
	}
	out.Map = UnpackMap(packed, out.Height)
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks the structural invariants of an output container.
func Validate(out *bandpal.Output) error {
	if out == nil {
		return fmt.Errorf("%w: nil output", ErrCorrupt)
	}
	if out.Version != bandpal.FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, out.Version)
	}
	if out.Width <= 0 || out.Height <= 0 || out.Width > MaxDimension || out.Height > MaxDimension {
		return fmt.Errorf("%w: size %dx%d", ErrCorrupt, out.Width, out.Height)
	}
	for b, p := range out.Palettes {
		if int(p.ID) != b {
			return fmt.Errorf("%w: palette %d has id %d", ErrCorrupt, b, p.ID)
		}
		if len(p.Colors) > bandpal.PaletteSize {
			return fmt.Errorf("%w: palette %d has %d colors", ErrCorrupt, b, len(p.Colors))
		}
	}
	if len(out.Bitmap) != out.Width*out.Height {
		return fmt.Errorf("%w: bitmap has %d pixels", ErrCorrupt, len(out.Bitmap))
	}
	if len(out.Map) != out.Height {
		return fmt.Errorf("%w: map has %d scanlines", ErrCorrupt, len(out.Map))
	}
	for y, band := range out.Map {
		if int(band) >= bandpal.NumBands {
			return fmt.Errorf("%w: scanline %d selects band %d", ErrCorrupt, y, band)
		}
		n := len(out.Palettes[band].Colors)
		for _, idx := range out.Bitmap[y*out.Width : (y+1)*out.Width] {
			if int(idx) >= n {
				return fmt.Errorf("%w: scanline %d uses index %d of %d", ErrCorrupt, y, idx, n)
			}
		}
	}
	return nil
}
