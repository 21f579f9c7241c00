// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package load

// bmp.go decodes the uncompressed Windows BMP variants legacy RWX
// content carries for masks and textures that the host image loader
// does not otherwise understand. No decoder in the broader ecosystem
// exposes the 1-bit row format or the mask-specific rotate/flip variants
// this format needs, so the byte layout is read directly against the
// standard BITMAPFILEHEADER/BITMAPINFOHEADER layout, in the same
// byte-oriented scanning style as the other load/*.go importers.

import (
	"encoding/binary"
	"fmt"
)

// Bitmap is a decoded pixel buffer in top-down, left-to-right RGBA8
// order: Pix[4*(y*W+x)+0..3] is (r,g,b,a) for pixel (x,y).
type Bitmap struct {
	W, H int
	Pix  []byte
}

const (
	bmpFileHeaderSize = 14
	bmpSignature      = "BM"
)

// DecodePlain decodes an uncompressed 1/8/24/32-bit BMP into a
// top-down-oriented Bitmap. It returns nil, err for a bad signature,
// compressed payload, unsupported bit depth, or a row read that runs
// past the end of data; per spec these are reported as "none", not a
// fatal condition — callers treat a nil Bitmap as an untextured slot.
func DecodePlain(data []byte) (*Bitmap, error) {
	if len(data) < bmpFileHeaderSize+40 {
		return nil, fmt.Errorf("bmp: short file (%d bytes)", len(data))
	}
	if string(data[0:2]) != bmpSignature {
		return nil, fmt.Errorf("bmp: bad signature %q", data[0:2])
	}
	dataOffset := binary.LittleEndian.Uint32(data[10:14])

	hdr := data[bmpFileHeaderSize:]
	headerSize := binary.LittleEndian.Uint32(hdr[0:4])
	if headerSize < 40 {
		return nil, fmt.Errorf("bmp: unsupported header size %d", headerSize)
	}
	width := int(int32(binary.LittleEndian.Uint32(hdr[4:8])))
	height := int(int32(binary.LittleEndian.Uint32(hdr[8:12])))
	bpp := binary.LittleEndian.Uint16(hdr[14:16])
	compression := binary.LittleEndian.Uint32(hdr[16:20])
	if compression != 0 {
		return nil, fmt.Errorf("bmp: compressed bitmaps unsupported (biCompression=%d)", compression)
	}

	topDown := height < 0
	h := height
	if topDown {
		h = -h
	}
	if width <= 0 || h <= 0 {
		return nil, fmt.Errorf("bmp: invalid dimensions %dx%d", width, h)
	}

	if int(dataOffset) > len(data) {
		return nil, fmt.Errorf("bmp: pixel data offset past end of file")
	}
	pixels := data[dataOffset:]

	var rowReader func(row []byte, out []byte, width int) error
	switch bpp {
	case 1:
		rowReader = decodeRow1
	case 8:
		rowReader = decodeRow8
	case 24:
		rowReader = decodeRow24
	case 32:
		rowReader = decodeRow32
	default:
		return nil, fmt.Errorf("bmp: unsupported bit depth %d", bpp)
	}

	stride := rowStride(width, int(bpp))
	out := make([]byte, width*h*4)
	for srcRow := 0; srcRow < h; srcRow++ {
		start := srcRow * stride
		end := start + stride
		if end > len(pixels) {
			return nil, fmt.Errorf("bmp: row %d overruns pixel data", srcRow)
		}
		// BMP's bottom-up row order is the default; the caller always
		// receives top-down rows regardless of biHeight's sign.
		dstRow := srcRow
		if !topDown {
			dstRow = h - 1 - srcRow
		}
		dstStart := dstRow * width * 4
		if err := rowReader(pixels[start:end], out[dstStart:dstStart+width*4], width); err != nil {
			return nil, fmt.Errorf("bmp: row %d: %w", srcRow, err)
		}
	}
	return &Bitmap{W: width, H: h, Pix: out}, nil
}

// rowStride is the BMP row size in bytes, padded to a 4-byte boundary.
func rowStride(width, bpp int) int {
	bits := width * bpp
	bytes := (bits + 7) / 8
	return (bytes + 3) &^ 3
}

func decodeRow1(row, out []byte, width int) error {
	for x := 0; x < width; x++ {
		byteIdx := x / 8
		if byteIdx >= len(row) {
			return fmt.Errorf("short row at pixel %d", x)
		}
		bit := (row[byteIdx] >> uint(7-x%8)) & 1
		v := byte(0)
		a := byte(255)
		if bit == 1 {
			v = 255
		}
		o := x * 4
		out[o], out[o+1], out[o+2], out[o+3] = v, v, v, a
	}
	return nil
}

func decodeRow8(row, out []byte, width int) error {
	if len(row) < width {
		return fmt.Errorf("short row")
	}
	for x := 0; x < width; x++ {
		v := row[x]
		o := x * 4
		out[o], out[o+1], out[o+2], out[o+3] = v, v, v, 255
	}
	return nil
}

func decodeRow24(row, out []byte, width int) error {
	if len(row) < width*3 {
		return fmt.Errorf("short row")
	}
	for x := 0; x < width; x++ {
		i := x * 3
		b, g, r := row[i], row[i+1], row[i+2]
		o := x * 4
		out[o], out[o+1], out[o+2], out[o+3] = r, g, b, 255
	}
	return nil
}

func decodeRow32(row, out []byte, width int) error {
	if len(row) < width*4 {
		return fmt.Errorf("short row")
	}
	for x := 0; x < width; x++ {
		i := x * 4
		b, g, r, a := row[i], row[i+1], row[i+2], row[i+3]
		o := x * 4
		out[o], out[o+1], out[o+2], out[o+3] = r, g, b, a
	}
	return nil
}

// DecodeMask decodes data as DecodePlain does, then applies the 90°
// clockwise rotation the legacy authoring tool's mask export needs.
func DecodeMask(data []byte) (*Bitmap, error) {
	b, err := DecodePlain(data)
	if err != nil {
		return nil, err
	}
	return b.rotate90CW(), nil
}

// DecodeDoubleSidedMask decodes data, rotates 90° clockwise, then flips
// horizontally, for the two-sided mask variant of the legacy format.
func DecodeDoubleSidedMask(data []byte) (*Bitmap, error) {
	b, err := DecodePlain(data)
	if err != nil {
		return nil, err
	}
	return b.rotate90CW().flipHorizontal(), nil
}

// DecodeFlipped decodes data and optionally flips it horizontally.
func DecodeFlipped(data []byte, flip bool) (*Bitmap, error) {
	b, err := DecodePlain(data)
	if err != nil {
		return nil, err
	}
	if flip {
		b = b.flipHorizontal()
	}
	return b, nil
}

func (b *Bitmap) rotate90CW() *Bitmap {
	out := &Bitmap{W: b.H, H: b.W, Pix: make([]byte, len(b.Pix))}
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			srcOff := (y*b.W + x) * 4
			dx := b.H - 1 - y
			dy := x
			dstOff := (dy*out.W + dx) * 4
			copy(out.Pix[dstOff:dstOff+4], b.Pix[srcOff:srcOff+4])
		}
	}
	return out
}

func (b *Bitmap) flipHorizontal() *Bitmap {
	out := &Bitmap{W: b.W, H: b.H, Pix: make([]byte, len(b.Pix))}
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			srcOff := (y*b.W + x) * 4
			dstOff := (y*b.W + (b.W - 1 - x)) * 4
			copy(out.Pix[dstOff:dstOff+4], b.Pix[srcOff:srcOff+4])
		}
	}
	return out
}

// flipVertical reverses row order; used by the Texture Loader's mask
// compositing step, not by any of the BMP decode variants themselves.
func (b *Bitmap) flipVertical() *Bitmap {
	out := &Bitmap{W: b.W, H: b.H, Pix: make([]byte, len(b.Pix))}
	rowBytes := b.W * 4
	for y := 0; y < b.H; y++ {
		srcStart := y * rowBytes
		dstStart := (b.H - 1 - y) * rowBytes
		copy(out.Pix[dstStart:dstStart+rowBytes], b.Pix[srcStart:srcStart+rowBytes])
	}
	return out
}
