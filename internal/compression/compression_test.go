package compression

import (
	"bytes"
	"testing"
)

func forecastPayload() []byte {
	return bytes.Repeat([]byte(`{"date":"2024-12-01T00:00:00Z","expected_quantity":42,"lower_bound":38,"upper_bound":46},`), 90)
}

func TestGetCompressor(t *testing.T) {
	for _, algo := range []Algorithm{None, Snappy} {
		c, err := GetCompressor(algo)
		if err != nil {
			t.Fatalf("GetCompressor(%d) failed: %v", algo, err)
		}
		if c.Algorithm() != algo {
			t.Errorf("Expected algorithm %d, got %d", algo, c.Algorithm())
		}
	}

	if _, err := GetCompressor(Algorithm(99)); err == nil {
		t.Error("Expected error for unsupported algorithm")
	}
}

func TestSnappyCompressor_RoundTrip(t *testing.T) {
	c := NewSnappyCompressor()
	original := forecastPayload()

	compressed, err := c.Compress(original)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if len(compressed) >= len(original) {
		t.Errorf("Expected repetitive forecast JSON to shrink, %d >= %d", len(compressed), len(original))
	}

	decompressed, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(original, decompressed) {
		t.Error("Decompressed data does not match original")
	}
}

func TestSnappyCompressor_Empty(t *testing.T) {
	c := NewSnappyCompressor()

	compressed, err := c.Compress(nil)
	if err != nil || len(compressed) != 0 {
		t.Errorf("Expected empty output, got %v (%v)", compressed, err)
	}

	decompressed, err := c.Decompress([]byte{})
	if err != nil || len(decompressed) != 0 {
		t.Errorf("Expected empty output, got %v (%v)", decompressed, err)
	}
}

func TestSnappyCompressor_CorruptInput(t *testing.T) {
	if _, err := NewSnappyCompressor().Decompress([]byte{0xff, 0xff, 0xff, 0xff, 0xff}); err == nil {
		t.Error("Expected error for corrupt input")
	}
}

func TestEncodeDecode(t *testing.T) {
	payload := forecastPayload()

	for _, enabled := range []bool{true, false} {
		frame, err := Encode(ForSetting(enabled), payload)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}

		wantAlgo := None
		if enabled {
			wantAlgo = Snappy
		}
		if Algorithm(frame[0]) != wantAlgo {
			t.Errorf("Expected header %d, got %d", wantAlgo, frame[0])
		}

		decoded, err := Decode(frame)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !bytes.Equal(payload, decoded) {
			t.Error("Decoded payload does not match original")
		}
	}
}

func TestDecode_InvalidFrames(t *testing.T) {
	if _, err := Decode(nil); err != ErrEmptyFrame {
		t.Errorf("Expected ErrEmptyFrame, got %v", err)
	}
	if _, err := Decode([]byte{42, 1, 2}); err == nil {
		t.Error("Expected error for unknown algorithm header")
	}
}

func BenchmarkEncodeSnappy(b *testing.B) {
	c := NewSnappyCompressor()
	data := forecastPayload()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Encode(c, data)
	}
}
