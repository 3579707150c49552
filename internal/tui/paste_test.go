package tui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizePaste(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "오늘은 배터리 이야기", "오늘은 배터리 이야기"},
		{"ansi colors", "\x1b[31m빨강\x1b[0m 글자", "빨강 글자"},
		{"private sequence", "\x1b[?25lhidden cursor", "hidden cursor"},
		{"crlf", "one\r\ntwo\r\n", "one\ntwo"},
		{"bare cr", "one\rtwo", "one\ntwo"},
		{"control chars", "a\x00b\x07c\x1fd\x7fe", "abcde"},
		{"keeps tabs", "key:\tvalue", "key:\tvalue"},
		{"trailing whitespace", "script  \n\n\t", "script"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SanitizePaste(tt.in))
		})
	}
}

func TestCollapseNewlines(t *testing.T) {
	require.Equal(t, "a b c", collapseNewlines("a\n\nb\nc"))
	require.Equal(t, "single", collapseNewlines("single"))
}
