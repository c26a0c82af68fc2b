package transport

import (
	"testing"

	"github.com/fastygo/todo/domain"
)

func TestParseErrorBody(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		shape ErrorShape
		text  string
	}{
		{"detail wins over message", `{"detail":"Invalid credentials","message":"nope"}`, ShapeDetail, "Invalid credentials"},
		{"message", `{"message":"Email already registered"}`, ShapeMessage, "Email already registered"},
		{"envelope error", `{"status":"error","error":"boom"}`, ShapeMessage, "boom"},
		{"validation list", `{"detail":[{"msg":"field required"},{"msg":"too short"}]}`, ShapeDetail, "field required; too short"},
		{"json string", `"service down"`, ShapeRaw, "service down"},
		{"plain text", "Bad Gateway", ShapeRaw, "Bad Gateway"},
		{"empty detail falls through", `{"detail":"","message":"m"}`, ShapeMessage, "m"},
		{"unknown object", `{"foo":1}`, ShapeUnknown, ""},
		{"empty", ``, ShapeUnknown, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseErrorBody([]byte(tc.body))
			if got.Shape != tc.shape || got.Text != tc.text {
				t.Fatalf("got %v %q, want %v %q", got.Shape, got.Text, tc.shape, tc.text)
			}
		})
	}
}

func TestErrorBodyMessageOr(t *testing.T) {
	if got := (ErrorBody{}).MessageOr("Login failed"); got != "Login failed" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := (ErrorBody{Shape: ShapeRaw, Text: "x"}).MessageOr("Login failed"); got != "x" {
		t.Fatalf("expected text, got %q", got)
	}
}

func TestDecodeAuth(t *testing.T) {
	data, err := DecodeAuth([]byte(`{"status":"success","data":{"token":"a.b.c","user":{"id":7,"email":"a@b.co"}}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Token != "a.b.c" || data.User.Email() != "a@b.co" || data.User.ID() != "7" {
		t.Fatalf("unexpected auth data %+v", data)
	}

	for _, body := range []string{`{"data":{}}`, `{"access_token":"x"}`, `not json`} {
		if _, err := DecodeAuth([]byte(body)); !domain.IsDomainError(err, domain.ErrCodeInvalidResponse) {
			t.Fatalf("%s: expected invalid response error, got %v", body, err)
		}
	}
}

func TestDecodeTaskList(t *testing.T) {
	bare := `[{"id":2,"title":"b","description":"","completed":true},{"id":1,"title":"a","description":"d","completed":false}]`
	wrapped := `{"data":` + bare + `}`

	for name, body := range map[string]string{"bare": bare, "wrapped": wrapped} {
		t.Run(name, func(t *testing.T) {
			tasks, err := DecodeTaskList([]byte(body))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(tasks) != 2 || tasks[0].ID != 2 || tasks[1].Title != "a" || !tasks[0].Completed {
				t.Fatalf("unexpected tasks %+v", tasks)
			}
		})
	}

	tasks, err := DecodeTaskList([]byte(`{"status":"success"}`))
	if err != nil || len(tasks) != 0 {
		t.Fatalf("expected empty list for wrapper without data, got %v (err=%v)", tasks, err)
	}
	if _, err := DecodeTaskList([]byte(`42`)); err == nil {
		t.Fatal("expected error for scalar payload")
	}

	epoch, err := DecodeTaskList([]byte(`[{"id":3,"title":"c","created_at":1700000000,"updated_at":null}]`))
	if err != nil {
		t.Fatalf("numeric timestamps must decode: %v", err)
	}
	if epoch[0].CreatedAt != "1700000000" || !epoch[0].UpdatedAt.IsZero() {
		t.Fatalf("unexpected timestamps %+v", epoch[0])
	}
}

func TestDecodeTask(t *testing.T) {
	task, err := DecodeTask([]byte(`{"id":5,"title":"X","description":"Y","completed":false,"created_at":"t1","updated_at":"t2"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := domain.Task{ID: 5, Title: "X", Description: "Y", CreatedAt: "t1", UpdatedAt: "t2"}
	if *task != want {
		t.Fatalf("got %+v, want %+v", *task, want)
	}

	wrapped, err := DecodeTask([]byte(`{"data":{"id":6,"title":"Z"}}`))
	if err != nil || wrapped.ID != 6 {
		t.Fatalf("unexpected wrapped task %+v (err=%v)", wrapped, err)
	}
}

func TestErrorEnvelopeParsesAsMessage(t *testing.T) {
	env := NewError("REGISTER_FAILED", "Could not create account", nil)
	if env.Status != "error" || env.Code != "REGISTER_FAILED" {
		t.Fatalf("unexpected envelope %+v", env)
	}

	body := ParseErrorBody([]byte(env.String()))
	if body.Shape != ShapeMessage || body.Text != "Could not create account" {
		t.Fatalf("unexpected parse result %+v", body)
	}
}
