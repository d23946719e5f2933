package bind

import (
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	perr "postcraft/internal/platform/errors"
)

type draft struct {
	Idea   string `json:"raw_idea" validate:"required,notblank,max=20"`
	Format string `json:"format,omitempty" validate:"omitempty,oneof=story debate"`
	Count  int    `json:"count,omitempty" validate:"omitempty,min=1"`
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		body  string
		ok    bool
		code  perr.ErrorCode
		field string
		msg   string
	}{
		{name: "ok", body: `{"raw_idea":"beta shipped","format":"story"}`, ok: true},
		{name: "empty", body: ``, code: perr.ErrorCodeJSON},
		{name: "malformed", body: `{"raw_idea":`, code: perr.ErrorCodeJSON},
		{name: "unknown field", body: `{"raw_idea":"x","tone":"dry"}`, code: perr.ErrorCodeJSON},
		{name: "trailing", body: `{"raw_idea":"x"} {}`, code: perr.ErrorCodeJSON},
		{name: "missing", body: `{}`, code: perr.ErrorCodeValidation, field: "raw_idea"},
		{name: "blank", body: `{"raw_idea":"   "}`, code: perr.ErrorCodeValidation, field: "raw_idea", msg: "raw_idea must not be blank"},
		{name: "too long", body: `{"raw_idea":"` + strings.Repeat("a", 21) + `"}`, code: perr.ErrorCodeValidation, msg: "raw_idea must be at most 20"},
		{name: "bad format", body: `{"raw_idea":"x","format":"haiku"}`, code: perr.ErrorCodeValidation, field: "format"},
		{name: "bad count", body: `{"raw_idea":"x","count":-1}`, code: perr.ErrorCodeValidation, msg: "count must be at least 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/posts/generate", strings.NewReader(tc.body))
			got, err := ParseJSON[draft](req)
			if tc.ok {
				if err != nil || got.Idea != "beta shipped" {
					t.Fatalf("got %+v, %v", got, err)
				}
				return
			}
			if perr.CodeOf(err) != tc.code {
				t.Fatalf("code = %q (%v), want %q", perr.CodeOf(err), err, tc.code)
			}
			wire := perr.WireFrom(err)
			if tc.field != "" && wire.Field != tc.field {
				t.Fatalf("field = %q, want %q", wire.Field, tc.field)
			}
			if tc.msg != "" && wire.Message != tc.msg {
				t.Fatalf("message = %q, want %q", wire.Message, tc.msg)
			}
		})
	}
}

func TestJSONName(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeOf(struct {
		A string `json:"a,omitempty"`
		B string
		C string `json:"-"`
	}{})
	for i, want := range []string{"a", "B", ""} {
		if got := jsonName(typ.Field(i)); got != want {
			t.Fatalf("field %d = %q, want %q", i, got, want)
		}
	}
}
