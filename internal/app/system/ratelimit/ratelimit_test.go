package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowAndWindow(t *testing.T) {
	l := New(2, 50*time.Millisecond)

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatal("first two requests must pass")
	}
	if l.Allow("k") {
		t.Error("third request in window must be blocked")
	}
	// Independent key is unaffected.
	if !l.Allow("other") {
		t.Error("other key blocked")
	}

	time.Sleep(60 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("request after window expiry must pass")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second request must be blocked")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("request after reset must pass")
	}
}

func TestClientIP(t *testing.T) {
	cases := map[string]struct {
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		"remote addr with port": {remoteAddr: "10.0.0.1:5555", want: "10.0.0.1"},
		"forwarded for wins":    {remoteAddr: "10.0.0.1:5555", xff: "203.0.113.7, 10.0.0.2", want: "203.0.113.7"},
		"real ip fallback":      {remoteAddr: "10.0.0.1:5555", xri: "203.0.113.9", want: "203.0.113.9"},
	}
	for name, tc := range cases {
		r := httptest.NewRequest("POST", "/login", nil)
		r.RemoteAddr = tc.remoteAddr
		if tc.xff != "" {
			r.Header.Set("X-Forwarded-For", tc.xff)
		}
		if tc.xri != "" {
			r.Header.Set("X-Real-IP", tc.xri)
		}
		if got := ClientIP(r); got != tc.want {
			t.Errorf("%s: got %q, want %q", name, got, tc.want)
		}
	}
}

func TestLoginLimiter_PerAccountWindow(t *testing.T) {
	ll := NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(req, "Alice"); !ok {
			t.Fatalf("attempt %d blocked too early", i+1)
		}
	}
	// Case variants hit the same account window.
	if ok, reason := ll.Check(req, "ALICE"); ok {
		t.Error("third attempt for account must be blocked")
	} else if reason == "" {
		t.Error("blocked attempt carries no reason")
	}

	// A different account from the same IP still passes.
	if ok, _ := ll.Check(req, "bob"); !ok {
		t.Error("different account blocked by account window")
	}

	ll.ResetUser("alice")
	if ok, _ := ll.Check(req, "alice"); !ok {
		t.Error("attempt after reset must pass")
	}
}

func TestLoginLimiter_PerIPWindow(t *testing.T) {
	ll := NewLoginLimiterWithConfig(2, time.Minute, 100, time.Minute)

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	ll.Check(req, "a1")
	ll.Check(req, "a2")
	if ok, _ := ll.Check(req, "a3"); ok {
		t.Error("third attempt from IP must be blocked")
	}

	other := httptest.NewRequest("POST", "/login", nil)
	other.RemoteAddr = "10.0.0.2:5555"
	if ok, _ := ll.Check(other, "a4"); !ok {
		t.Error("different IP blocked by IP window")
	}
}
