package user

import "testing"

func TestParseSteamID(t *testing.T) {
	tests := []struct {
		in   string
		want SteamID
		ok   bool
	}{
		{in: "76561197960287930", want: 76561197960287930, ok: true},
		{in: " 76561198000000000\n", want: 76561198000000000, ok: true},
		{in: "gabelogannewell", ok: false},
		{in: "7656119796028793", ok: false},
		{in: "00000000000000001", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseSteamID(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseSteamID(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSteamIDString(t *testing.T) {
	if got := SteamID(76561197960287930).String(); got != "76561197960287930" {
		t.Fatalf("unexpected string %q", got)
	}
}
