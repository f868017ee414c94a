package spectrum

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestTableEncodeRoundTrip(t *testing.T) {
	tbl := testSRGBTable(t)

	var buf bytes.Buffer
	if err := tbl.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	wantSize := 4 + 4 + 4 + 4*tbl.Res + 4*9*tbl.Res*tbl.Res*tbl.Res
	if buf.Len() != wantSize {
		t.Errorf("encoded size %d, want %d", buf.Len(), wantSize)
	}

	got, err := DecodeTable(&buf)
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if got.Res != tbl.Res {
		t.Fatalf("decoded Res = %d, want %d", got.Res, tbl.Res)
	}
	for i, v := range tbl.ZNodes {
		if got.ZNodes[i] != v {
			t.Fatalf("ZNodes[%d] = %g, want %g", i, got.ZNodes[i], v)
		}
	}
	for i, v := range tbl.Coefficients {
		if got.Coefficients[i] != v {
			t.Fatalf("Coefficients[%d] = %g, want %g", i, got.Coefficients[i], v)
		}
	}
}

func TestDecodeTableBadInput(t *testing.T) {
	tbl := testSRGBTable(t)
	var buf bytes.Buffer
	if err := tbl.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	encoded := buf.Bytes()

	t.Run("bad magic", func(t *testing.T) {
		corrupt := append([]byte(nil), encoded...)
		corrupt[0] = 'X'
		if _, err := DecodeTable(bytes.NewReader(corrupt)); err == nil {
			t.Error("expected error for bad magic")
		}
	})

	t.Run("bad version", func(t *testing.T) {
		corrupt := append([]byte(nil), encoded...)
		corrupt[4] = 0xFF
		if _, err := DecodeTable(bytes.NewReader(corrupt)); err == nil {
			t.Error("expected error for unknown version")
		}
	})

	t.Run("oversized resolution", func(t *testing.T) {
		// A hostile header must be rejected before the 9*res^3
		// coefficient allocation is attempted.
		hdr := make([]byte, 12)
		copy(hdr, "OSPT")
		binary.LittleEndian.PutUint32(hdr[4:], 1)
		binary.LittleEndian.PutUint32(hdr[8:], 4_000_000_000)
		_, err := DecodeTable(bytes.NewReader(hdr))
		if !errors.Is(err, ErrInvalidResolution) {
			t.Errorf("DecodeTable error = %v, want ErrInvalidResolution", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		if _, err := DecodeTable(bytes.NewReader(encoded[:len(encoded)/2])); err == nil {
			t.Error("expected error for truncated payload")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := DecodeTable(bytes.NewReader(nil)); err == nil {
			t.Error("expected error for empty input")
		}
	})
}
