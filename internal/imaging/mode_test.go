package imaging

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"auto", ModeAuto, false},
		{"", ModeAuto, false},
		{"COLOR", ModeColor, false},
		{" bw ", ModeBW, false},
		{"grayscale", ModeAuto, true},
	}
	for _, tc := range tests {
		got, err := ParseMode(tc.input)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseMode(%q) err = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseMode(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestModeSetRejectsInvalidValue(t *testing.T) {
	mode := ModeColor
	if err := mode.Set("sepia"); err == nil {
		t.Fatal("expected error for invalid mode")
	}
	if mode != ModeColor {
		t.Fatalf("invalid Set must not change the value, got %v", mode)
	}
	if err := mode.Set("bw"); err != nil || mode != ModeBW {
		t.Fatalf("Set(bw) = %v, mode %v", err, mode)
	}
}

func TestModeResolved(t *testing.T) {
	if ModeAuto.Resolved() {
		t.Fatal("auto must not be resolved")
	}
	if !ModeColor.Resolved() || !ModeBW.Resolved() {
		t.Fatal("color and bw are resolved")
	}
}

func TestParseInvert(t *testing.T) {
	if v, err := ParseInvert("on"); err != nil || !v.Enabled() {
		t.Fatalf("ParseInvert(on) = %v, %v", v, err)
	}
	if v, err := ParseInvert("OFF"); err != nil || v.Enabled() {
		t.Fatalf("ParseInvert(OFF) = %v, %v", v, err)
	}
	if _, err := ParseInvert("yes"); err == nil {
		t.Fatal("expected error for invalid invert")
	}
	var zero Invert
	if zero.String() != "off" {
		t.Fatalf("zero invert should be off, got %s", zero)
	}
}

func TestIsSupported(t *testing.T) {
	for _, name := range []string{"cat.png", "CAT.PNG", "a.jpeg", "b.JPG", "c.bmp", "d.tif", "e.TIFF", "f.webp"} {
		if !IsSupported(name) {
			t.Fatalf("expected %s to be supported", name)
		}
	}
	for _, name := range []string{"README.md", "coloring.toml", "cat.svg", "cat.pdf", "noext", ".png.bak"} {
		if IsSupported(name) {
			t.Fatalf("expected %s to be unsupported", name)
		}
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/tmp/input/cat.photo.PNG"); got != "cat.photo" {
		t.Fatalf("Stem = %q", got)
	}
	if got := Stem(".png"); got != ".png" {
		t.Fatalf("Stem of dotfile = %q", got)
	}
}
