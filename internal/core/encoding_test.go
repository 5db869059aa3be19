package core

import (
	"testing"
	"unicode/utf8"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    string
		wantEnc string
	}{
		{
			name:    "utf-8",
			input:   []byte("Organization;Name\nAcme;José"),
			want:    "Organization;Name\nAcme;José",
			wantEnc: EncodingUTF8,
		},
		{
			name:    "utf-8 with bom",
			input:   append([]byte{0xEF, 0xBB, 0xBF}, "Name"...),
			want:    "Name",
			wantEnc: EncodingUTF8,
		},
		{
			name:    "windows-1252 accents",
			input:   []byte("Jos\xe9 Concei\xe7\xe3o"),
			want:    "José Conceição",
			wantEnc: EncodingWindows1252,
		},
		{
			name:    "windows-1252 euro sign",
			input:   []byte("\x80 100"),
			want:    "€ 100",
			wantEnc: EncodingWindows1252,
		},
		{
			name:    "empty",
			input:   nil,
			want:    "",
			wantEnc: EncodingUTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc := DecodeText(tt.input)
			if got != tt.want {
				t.Errorf("DecodeText() text = %q, want %q", got, tt.want)
			}
			if enc != tt.wantEnc {
				t.Errorf("DecodeText() encoding = %q, want %q", enc, tt.wantEnc)
			}
		})
	}
}

func TestDecodeText_AlwaysReturnsValidText(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	got, _ := DecodeText(all)
	if !utf8.ValidString(got) {
		t.Fatal("DecodeText returned invalid UTF-8")
	}
	if got == "" {
		t.Fatal("DecodeText returned empty text for non-empty input")
	}
}

func TestDecodeLatin1(t *testing.T) {
	got := decodeLatin1([]byte{'J', 0xE9, 0xFF})
	if want := "Jéÿ"; got != want {
		t.Errorf("decodeLatin1() = %q, want %q", got, want)
	}
}
