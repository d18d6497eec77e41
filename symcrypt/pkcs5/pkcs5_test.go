package pkcs5

import (
	"bytes"
	"testing"
)

func TestPaddedLengthFullBlock(t *testing.T) {
	for _, bs := range []int{8, 16} {
		for n := 0; n <= 4; n++ {
			if got := PaddedLength(n*bs, bs); got != (n+1)*bs {
				t.Fatalf("PaddedLength(%d, %d) = %d, want %d", n*bs, bs, got, (n+1)*bs)
			}
		}
	}
}

func TestPaddedLengthRoundsUp(t *testing.T) {
	tests := []struct {
		length, blockSize, want int
	}{
		{1, 16, 16},
		{15, 16, 16},
		{17, 16, 32},
		{7, 8, 8},
		{9, 8, 16},
		{5, 3, 6},
	}
	for _, tt := range tests {
		if got := PaddedLength(tt.length, tt.blockSize); got != tt.want {
			t.Fatalf("PaddedLength(%d, %d) = %d, want %d", tt.length, tt.blockSize, got, tt.want)
		}
	}
}

func TestPadRoundTrip(t *testing.T) {
	for _, bs := range []int{8, 16} {
		for length := 0; length <= 4*bs; length++ {
			padded := PaddedLength(length, bs)
			buf := make([]byte, padded)
			for i := 0; i < length; i++ {
				buf[i] = byte(i)
			}
			Pad(buf, length, bs)

			if got := UnpaddedLength(buf); got != length {
				t.Fatalf("UnpaddedLength: got %d, want %d (block %d)", got, length, bs)
			}

			want := byte(padded - length)
			for i := length; i < padded; i++ {
				if buf[i] != want {
					t.Fatalf("pad byte %d = %d, want %d", i, buf[i], want)
				}
			}

			out, err := Unpad(buf, bs)
			if err != nil {
				t.Fatalf("Unpad: %v", err)
			}
			if len(out) != length {
				t.Fatalf("Unpad length: got %d, want %d", len(out), length)
			}
		}
	}
}

func TestPadFullBlockValue(t *testing.T) {
	buf := make([]byte, 32)
	Pad(buf, 16, 16)
	if !bytes.Equal(buf[16:], bytes.Repeat([]byte{16}, 16)) {
		t.Fatalf("expected a full block of 0x10, got %x", buf[16:])
	}
}

func TestAppend(t *testing.T) {
	data := []byte("hello")
	out := Append(data, 8)
	if len(out) != 8 {
		t.Fatalf("unexpected length %d", len(out))
	}
	if !bytes.Equal(out, []byte{'h', 'e', 'l', 'l', 'o', 3, 3, 3}) {
		t.Fatalf("unexpected padding %x", out)
	}
	if string(data) != "hello" {
		t.Fatalf("input modified")
	}
}

func TestUnpadRejectsCorruption(t *testing.T) {
	good := Append([]byte("0123456789"), 16)

	bad := append([]byte(nil), good...)
	bad[len(bad)-2] ^= 0x01
	if _, err := Unpad(bad, 16); err != ErrInvalidPadding {
		t.Fatalf("expected ErrInvalidPadding, got %v", err)
	}

	zero := append([]byte(nil), good...)
	zero[len(zero)-1] = 0
	if _, err := Unpad(zero, 16); err != ErrInvalidPadding {
		t.Fatalf("expected ErrInvalidPadding for zero count, got %v", err)
	}

	big := append([]byte(nil), good...)
	big[len(big)-1] = 17
	if _, err := Unpad(big, 16); err != ErrInvalidPadding {
		t.Fatalf("expected ErrInvalidPadding for oversize count, got %v", err)
	}

	if _, err := Unpad(good[:15], 16); err != ErrInvalidLength {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
	if _, err := Unpad(nil, 16); err != ErrInvalidLength {
		t.Fatalf("expected ErrInvalidLength for empty input, got %v", err)
	}
}

func TestCheckLength(t *testing.T) {
	for _, bs := range []int{1, 3, 8, 16} {
		for length := 0; length < 100; length++ {
			if got, want := CheckLength(length, bs), length%bs == 0; got != want {
				t.Fatalf("CheckLength(%d, %d) = %v, want %v", length, bs, got, want)
			}
		}
	}
}

func TestPreconditionPanics(t *testing.T) {
	cases := map[string]func(){
		"zero block size":  func() { PaddedLength(1, 0) },
		"huge block size":  func() { CheckLength(1, 256) },
		"negative length":  func() { PaddedLength(-1, 8) },
		"short buffer":     func() { Pad(make([]byte, 4), 4, 8) },
		"empty unpadded":   func() { UnpaddedLength(nil) },
		"count past start": func() { UnpaddedLength([]byte{0, 9}) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			fn()
		})
	}
}
