package model

import "testing"

func TestWhatsAppLink(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "international with plus", phone: "+34 612 345 678", want: "https://wa.me/34612345678"},
		{name: "dashes and parens", phone: "(+34) 612-345-678", want: "https://wa.me/34612345678"},
		{name: "plain digits", phone: "34612345678", want: "https://wa.me/34612345678"},
		{name: "no digits", phone: "n/a", want: ""},
		{name: "empty", phone: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Customer{Phone: tt.phone}
			if got := c.WhatsAppLink(); got != tt.want {
				t.Errorf("WhatsAppLink(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}
