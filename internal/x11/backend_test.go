package x11

import (
	"testing"

	"github.com/1broseidon/stagehand/internal/wm"
)

func TestParseHandle(t *testing.T) {
	cases := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{in: "0x03a00007", want: 0x03a00007},
		{in: "0x0000002a", want: 42},
		{in: "2a", want: 42}, // bare hex is accepted
		{in: "", wantErr: true},
		{in: "0xzz", wantErr: true},
		{in: "window-1", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseHandle(wm.Handle(tc.in))
		if (err != nil) != tc.wantErr {
			t.Errorf("parseHandle(%q) err=%v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("parseHandle(%q) = %#x, want %#x", tc.in, got, tc.want)
		}
	}
}
