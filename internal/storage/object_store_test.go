package storage

import "testing"

func TestPathEscapeKey(t *testing.T) {
	cases := map[string]string{
		"posts/abc.png":       "posts/abc.png",
		"posts/my photo.png":  "posts/my%20photo.png",
		"a/b/c":               "a/b/c",
		"weird#name?.jpg":     "weird%23name%3F.jpg",
		"avatars/u-1/pic.jpg": "avatars/u-1/pic.jpg",
	}
	for in, want := range cases {
		if got := pathEscapeKey(in); got != want {
			t.Fatalf("pathEscapeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
