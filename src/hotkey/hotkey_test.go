package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Ctrl+Alt+M", []string{"ctrl", "alt", "m"}},
		{"ctrl+alt+m", []string{"ctrl", "alt", "m"}},
		{"Ctrl+Shift+F13", []string{"ctrl", "shift", "f13"}},
		{"Win+Shift+S", []string{"cmd", "shift", "s"}},
		{"Super+Escape", []string{"cmd", "esc"}},
		{" Ctrl + Alt + M ", []string{"ctrl", "alt", "m"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseHotkey(tt.input))
		})
	}
}

func TestKeyNameToRawcodes(t *testing.T) {
	tests := []struct {
		name string
		want []uint16
	}{
		{"ctrl", []uint16{162, 163}},
		{"alt", []uint16{164, 165}},
		{"shift", []uint16{160, 161}},
		{"win", []uint16{91, 92}},
		{"super", []uint16{91, 92}},
		{"m", []uint16{77}},
		{"a", []uint16{65}},
		{"z", []uint16{90}},
		{"0", []uint16{48}},
		{"9", []uint16{57}},
		{"f1", []uint16{112}},
		{"f12", []uint16{123}},
		{"f24", []uint16{135}},
		{"space", []uint16{32}},
		{"escape", []uint16{27}},
		{"pgdn", []uint16{34}},
		{"unknown", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyNameToRawcodes(tt.name))
		})
	}
}
