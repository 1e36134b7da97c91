package headers

import (
	"reflect"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	in := []string{"referer: https://www.google.com/", "Accept: text/html", "X-Empty:"}
	out, err := ParseHeaders(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := map[string]string{"Referer": "https://www.google.com/", "Accept": "text/html", "X-Empty": ""}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("unexpected parse result: %#v", out)
	}
}

func TestParseHeaders_Rejects(t *testing.T) {
	for _, in := range []string{"BadHeader", ": value", "user-agent: Bot", "Cookie: a=b"} {
		if _, err := ParseHeaders([]string{in}); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}
