package header_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/pimstore/pkg/store/header"
)

func Test_Marshal_RoundTrips_AllKinds(t *testing.T) {
	t.Parallel()

	h := header.NewTable()

	must := func(path string, v *header.Node) {
		t.Helper()

		err := header.Insert(h, path, v)
		if err != nil {
			t.Fatalf("insert %s: %v", path, err)
		}
	}

	must("a.str", header.String("multi\nline \"quoted\"\n---\n"))
	must("a.int", header.Integer(-12))
	must("a.float", header.Float(1.5))
	must("a.bool", header.Boolean(true))
	must("a.when", header.Datetime(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
	must("a.local", header.Datetime(header.LocalDatetime(time.Date(2024, 3, 1, 10, 30, 5, 0, time.UTC))))
	must("a.tags", header.StringArray([]string{"x", "y"}))
	must("a.empty", header.NewTable())
	must("b.rows.[0].n", header.Integer(1))
	must("b.rows.[1].n", header.Integer(2))

	data, err := header.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := header.Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, data)
	}

	if !got.Equal(h) {
		t.Fatalf("round trip mismatch\n got: %v\nwant: %v\ntoml:\n%s", got, h, data)
	}

	again, err := header.Marshal(got)
	if err != nil {
		t.Fatalf("marshal again: %v", err)
	}

	if diff := cmp.Diff(string(data), string(again)); diff != "" {
		t.Fatalf("encoding not stable (-first +second):\n%s", diff)
	}
}

func Test_Marshal_Fails_When_RootIsNotTable(t *testing.T) {
	t.Parallel()

	_, err := header.Marshal(header.String("x"))
	if !errors.Is(err, header.ErrEncode) {
		t.Fatalf("err=%v, want ErrEncode", err)
	}
}

func Test_Unmarshal_Fails_When_InputIsNotToml(t *testing.T) {
	t.Parallel()

	_, err := header.Unmarshal([]byte("this is = = not toml"))
	if !errors.Is(err, header.ErrDecode) {
		t.Fatalf("err=%v, want ErrDecode", err)
	}
}

func Test_Unmarshal_Returns_EmptyTable_When_InputEmpty(t *testing.T) {
	t.Parallel()

	h, err := header.Unmarshal(nil)
	if err != nil || h.Kind() != header.KindTable || h.Len() != 0 {
		t.Fatalf("Unmarshal(nil)=(%v,%v), want empty table", h, err)
	}
}

func Test_ParseDatetime_Accepts_TomlDatetimeFlavors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		local bool
		want  string
	}{
		{in: "2024-03-01T10:30:00Z", want: "2024-03-01T10:30:00Z"},
		{in: "2024-03-01T10:30:00", local: true, want: "2024-03-01T10:30:00"},
		{in: "2024-03-01", local: true, want: "2024-03-01"},
		{in: "10:30:00", local: true, want: "10:30:00"},
	}

	for _, tc := range cases {
		got, err := header.ParseDatetime(tc.in)
		if err != nil {
			t.Fatalf("ParseDatetime(%q): %v", tc.in, err)
		}

		if header.IsLocal(got) != tc.local {
			t.Fatalf("ParseDatetime(%q) IsLocal=%v, want %v", tc.in, header.IsLocal(got), tc.local)
		}

		if s := header.Datetime(got).String(); s != tc.want {
			t.Fatalf("String()=%q, want %q", s, tc.want)
		}
	}
}

func Test_ParseDatetime_Rejects_NonDatetimes(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "yesterday", "42", "\"2024-03-01\"", "2024-03-01\nx = 1"} {
		_, err := header.ParseDatetime(in)
		if !errors.Is(err, header.ErrDecode) {
			t.Fatalf("ParseDatetime(%q) err=%v, want ErrDecode", in, err)
		}
	}
}

func Test_Marshal_Fails_When_StringOrKeyIsNotUTF8(t *testing.T) {
	t.Parallel()

	h := header.NewTable()

	err := header.Insert(h, "a.list.[0]", header.String("a\xffb"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err = header.Marshal(h)
	if !errors.Is(err, header.ErrEncode) {
		t.Fatalf("err=%v, want ErrEncode", err)
	}

	if !strings.Contains(err.Error(), "path=a.list.[0]") {
		t.Fatalf("err=%q, want path=a.list.[0]", err)
	}

	h = header.NewTable()

	err = header.Insert(h, "bad\xfekey", header.String("ok"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err = header.Marshal(h)
	if !errors.Is(err, header.ErrEncode) {
		t.Fatalf("err=%v, want ErrEncode", err)
	}
}
