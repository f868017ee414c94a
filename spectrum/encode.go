package spectrum

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Binary table format: a fixed little-endian layout so tables generated
// offline can be embedded and consumed without conversion.
//
//	magic   [4]byte "OSPT"
//	version uint32  (currently 1)
//	res     uint32
//	scale   [res]float32
//	table   [9*res^3]float32   // [channel][z][y][x][coef]
const (
	tableMagic   = "OSPT"
	tableVersion = 1

	// tableMaxRes bounds the resolution DecodeTable accepts. The
	// coefficient payload grows as 9*res^3 floats, so an unchecked
	// header could demand gigabytes before the body read ever fails.
	tableMaxRes = 256
)

// Encode writes the table in the binary format described above.
func (t *Table) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(tableMagic); err != nil {
		return fmt.Errorf("spectrum: write magic: %w", err)
	}

	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:], tableVersion)
	binary.LittleEndian.PutUint32(hdr[4:], uint32(t.Res))
	if _, err := bw.Write(hdr[:]); err != nil {
		return fmt.Errorf("spectrum: write header: %w", err)
	}

	var buf [4]byte
	writeF32 := func(v float32) error {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		_, err := bw.Write(buf[:])
		return err
	}

	for _, v := range t.ZNodes {
		if err := writeF32(v); err != nil {
			return fmt.Errorf("spectrum: write scale: %w", err)
		}
	}
	for _, v := range t.Coefficients {
		if err := writeF32(v); err != nil {
			return fmt.Errorf("spectrum: write coefficients: %w", err)
		}
	}

	return bw.Flush()
}

// DecodeTable reads a table previously written by Encode, validating the
// header and resolution.
func DecodeTable(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("spectrum: read magic: %w", err)
	}
	if string(magic[:]) != tableMagic {
		return nil, fmt.Errorf("spectrum: bad table magic %q", magic)
	}

	var hdr [8]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, fmt.Errorf("spectrum: read header: %w", err)
	}
	version := binary.LittleEndian.Uint32(hdr[0:])
	if version != tableVersion {
		return nil, fmt.Errorf("spectrum: unsupported table version %d", version)
	}
	res := int(binary.LittleEndian.Uint32(hdr[4:]))
	if res < 2 || res > tableMaxRes {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidResolution, res)
	}

	readF32s := func(n int) ([]float32, error) {
		raw := make([]byte, 4*n)
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, err
		}
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
		return out, nil
	}

	scale, err := readF32s(res)
	if err != nil {
		return nil, fmt.Errorf("spectrum: read scale: %w", err)
	}
	coeffs, err := readF32s(9 * res * res * res)
	if err != nil {
		return nil, fmt.Errorf("spectrum: read coefficients: %w", err)
	}

	return &Table{Res: res, ZNodes: scale, Coefficients: coeffs}, nil
}
