package casing

import (
	"strings"
	"testing"
)

func TestSnake(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Position", "position"},
		{"DurationChanged", "duration_changed"},
		{"UIElement", "ui_element"},
		{"Windows", "windows"},
		{"XamlUICommand", "xaml_ui_command"},
		{"ToString", "to_string"},
		{"Point2D", "point2_d"},
		{"HSTRING", "hstring"},
		{"already_snake", "already_snake"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Snake(tt.input)
			if got != tt.want {
				t.Errorf("Snake(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAppendSnakeWithPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		input  string
		want   string
	}{
		{"set", "Position", "set_position"},
		{"remove", "DurationChanged", "remove_duration_changed"},
		{"set", "UIMode", "set_ui_mode"},
		{"", "Volume", "volume"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix+"+"+tt.input, func(t *testing.T) {
			var b strings.Builder
			b.WriteString(tt.prefix)
			AppendSnake(&b, tt.input)
			if got := b.String(); got != tt.want {
				t.Errorf("AppendSnake(%q, %q) = %q, want %q", tt.prefix, tt.input, got, tt.want)
			}
		})
	}
}
