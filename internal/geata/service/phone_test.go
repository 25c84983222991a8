package service_test

import (
	"testing"

	"github.com/wakko59/Geata-api/internal/geata/service"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"086 123 4567", "+353861234567"},
		{"(086) 123-4567", "+353861234567"},
		{"0861234567", "+353861234567"},
		{"00353861234567", "+353861234567"},
		{"+353 86 123 4567", "+353861234567"},
		{"+14155550123", "+14155550123"},
		{"  0861234567  ", "+353861234567"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := service.NormalizePhone(tc.in, "+353"); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
