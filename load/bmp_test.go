// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package load

import (
	"encoding/binary"
	"testing"
)

// makeBMP24 builds a minimal uncompressed 24-bit BMP with the given
// bottom-up row order (the on-disk default) from a top-down RGB pixel
// grid: px[y][x] = [r,g,b].
func makeBMP24(t *testing.T, px [][][3]byte) []byte {
	t.Helper()
	h := len(px)
	w := len(px[0])
	stride := rowStride(w, 24)
	pixelData := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		// Bottom-up storage: the last source row is written first.
		dstRow := h - 1 - y
		for x := 0; x < w; x++ {
			o := dstRow*stride + x*3
			pixelData[o], pixelData[o+1], pixelData[o+2] = px[y][x][2], px[y][x][1], px[y][x][0]
		}
	}
	const fileHdr = 14
	const infoHdr = 40
	offset := fileHdr + infoHdr
	buf := make([]byte, offset+len(pixelData))
	buf[0], buf[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(buf[2:6], uint32(len(buf)))
	binary.LittleEndian.PutUint32(buf[10:14], uint32(offset))
	binary.LittleEndian.PutUint32(buf[14:18], uint32(infoHdr))
	binary.LittleEndian.PutUint32(buf[18:22], uint32(w))
	binary.LittleEndian.PutUint32(buf[22:26], uint32(h)) // positive: bottom-up
	binary.LittleEndian.PutUint16(buf[28:30], 24)
	binary.LittleEndian.PutUint32(buf[30:34], 0) // biCompression
	copy(buf[offset:], pixelData)
	return buf
}

// go test -run DecodePlain24
func TestDecodePlain24BitOrientation(t *testing.T) {
	red := [3]byte{255, 0, 0}
	blue := [3]byte{0, 0, 255}
	data := makeBMP24(t, [][][3]byte{
		{red, red},
		{blue, blue},
	})
	b, err := DecodePlain(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.W != 2 || b.H != 2 {
		t.Fatalf("expected 2x2, got %dx%d", b.W, b.H)
	}
	if got := pixelAt(b, 0, 0); got != red {
		t.Errorf("top-left = %v, want red", got)
	}
	if got := pixelAt(b, 0, 1); got != blue {
		t.Errorf("bottom-left = %v, want blue", got)
	}
}

func pixelAt(b *Bitmap, x, y int) [3]byte {
	o := (y*b.W + x) * 4
	return [3]byte{b.Pix[o], b.Pix[o+1], b.Pix[o+2]}
}

// go test -run DecodeBadSignature
func TestDecodeBadSignature(t *testing.T) {
	if _, err := DecodePlain([]byte("not a bmp at all, just text")); err == nil {
		t.Fatal("expected error for bad signature")
	}
}

// go test -run Decode1Bit
func TestDecode1BitPacksMSBFirst(t *testing.T) {
	// 1 row, 8 pixels: 10110010 -> white where a bit is 1, black where
	// it is 0, most significant bit first.
	row := []byte{0b10110010}
	out := make([]byte, 8*4)
	if err := decodeRow1(row, out, 8); err != nil {
		t.Fatalf("decodeRow1: %v", err)
	}
	want := []byte{1, 0, 1, 1, 0, 0, 1, 0}
	for x, bit := range want {
		o := x * 4
		wantV := byte(0)
		if bit == 1 {
			wantV = 255
		}
		if out[o] != wantV {
			t.Errorf("pixel %d: got %d, want %d", x, out[o], wantV)
		}
		if out[o+3] != 255 {
			t.Errorf("pixel %d: expected opaque alpha, got %d", x, out[o+3])
		}
	}
}

// go test -run Rotate90CW
func TestRotate90CWDimensions(t *testing.T) {
	b := &Bitmap{W: 3, H: 2, Pix: make([]byte, 3*2*4)}
	r := b.rotate90CW()
	if r.W != 2 || r.H != 3 {
		t.Errorf("expected rotated dims 2x3, got %dx%d", r.W, r.H)
	}
}

// go test -run FlipHorizontal
func TestFlipHorizontalSwapsColumns(t *testing.T) {
	b := &Bitmap{W: 2, H: 1, Pix: []byte{1, 0, 0, 255, 2, 0, 0, 255}}
	f := b.flipHorizontal()
	if f.Pix[0] != 2 || f.Pix[4] != 1 {
		t.Errorf("expected columns swapped, got %v", f.Pix)
	}
}

// go test -run FlipVertical
func TestFlipVerticalReversesRows(t *testing.T) {
	b := &Bitmap{W: 1, H: 2, Pix: []byte{1, 0, 0, 255, 2, 0, 0, 255}}
	f := b.flipVertical()
	if f.Pix[0] != 2 || f.Pix[4] != 1 {
		t.Errorf("expected rows reversed, got %v", f.Pix)
	}
}

// go test -run DecodeRejectsCompression
func TestDecodeRejectsCompression(t *testing.T) {
	data := makeBMP24(t, [][][3]byte{{{1, 2, 3}}})
	binary.LittleEndian.PutUint32(data[30:34], 1) // BI_RLE8
	if _, err := DecodePlain(data); err == nil {
		t.Fatal("expected error for compressed bitmap")
	}
}
