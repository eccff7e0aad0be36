package latex

import "testing"

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no comments", "plain text\nmore", "plain text\nmore"},
		{"trailing comment", "a % note\nb", "a \nb"},
		{"whole line", "% hidden \\begin{table}", ""},
		{"escaped percent", `text \% \begin{table}`, `text \% \begin{table}`},
		{"escaped then real", "50\\% done % todo\nnext", "50\\% done \nnext"},
		{"consecutive comment lines", "x %a\n%b\ny", "x \n\ny"},
		{"comment at end without newline", "keep%drop", "keep"},
		{"double backslash keeps percent", `a\\%b`, `a\\%b`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripComments(tt.in); got != tt.want {
				t.Errorf("StripComments(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
