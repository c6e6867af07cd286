package main

import "testing"

func TestLeds(t *testing.T) {
	tests := []struct {
		val  uint8
		bits int
		want string
	}{
		{0x00, 8, "○ ○ ○ ○ ○ ○ ○ ○ "},
		{0xFF, 8, "● ● ● ● ● ● ● ● "},
		{0x05, 4, "○ ● ○ ● "},
		{0x80, 8, "● ○ ○ ○ ○ ○ ○ ○ "},
	}
	for _, tc := range tests {
		if got := leds(tc.val, tc.bits); got != tc.want {
			t.Errorf("leds(%#02x, %d) = %q; want %q", tc.val, tc.bits, got, tc.want)
		}
	}
}

func TestLoadProgramDefaultsToDemo(t *testing.T) {
	code, err := loadProgram("")
	if err != nil {
		t.Fatalf("loadProgram: %v", err)
	}
	if len(code) == 0 {
		t.Fatal("demo program assembled to zero bytes")
	}
}
