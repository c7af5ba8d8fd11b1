package discovery

import "testing"

func TestRelayBaseURL(t *testing.T) {
	r := Relay{Name: "x", Addr: "192.168.1.5:3000", Port: 3000}
	if got := r.BaseURL(); got != "http://192.168.1.5:3000" {
		t.Fatalf("BaseURL: got %q", got)
	}
}

func TestAdvertise_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		if _, err := Advertise("relay", port); err == nil {
			t.Fatalf("port %d: expected error", port)
		}
	}
}
