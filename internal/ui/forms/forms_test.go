package forms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arcup/arcup-web/internal/contact/contactapi"
)

func TestCollect(t *testing.T) {
	values := url.Values{
		"name":      {" Ada "},
		"email":     {"ada@example.org"},
		"anonymous": {"on"},
		"persona":   {"researcher"},
		"message":   {"Hi there\n"},
		"skills":    {"python", "", "fieldwork", "python"},
	}
	got := Collect(values)
	want := contactapi.Request{
		Name:      "Ada",
		Email:     "ada@example.org",
		Anonymous: true,
		Persona:   "researcher",
		Message:   "Hi there\n",
		Skills:    []string{"python", "fieldwork"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Collect mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectWithoutSkillsYieldsEmptySet(t *testing.T) {
	got := Collect(url.Values{"anonymous": {"yes"}})
	if got.Anonymous {
		t.Fatalf("only \"on\" marks a submission anonymous")
	}
	if got.Skills == nil || len(got.Skills) != 0 {
		t.Fatalf("expected empty non-nil skills, got %#v", got.Skills)
	}
}

func TestHTTPSubmitter(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   Result
		err    bool
	}{
		{name: "success", status: http.StatusOK, body: `{"success":true,"message":"Message sent successfully!","id":"m-1"}`, want: Result{OK: true, Message: "Message sent successfully!", ID: "m-1"}},
		{name: "validation", status: http.StatusBadRequest, body: `{"success":false,"error":"Persona and message are required"}`, want: Result{Message: "Persona and message are required"}},
		{name: "no error text", status: http.StatusInternalServerError, body: `{"success":false}`, want: Result{Message: FallbackError}},
		{name: "ok status without success", status: http.StatusOK, body: `{"success":false}`, want: Result{Message: FallbackError}},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, err: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got contactapi.Request
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
				}
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			sub := NewHTTPSubmitter(srv.URL + contactapi.Path)
			res, err := sub.Submit(context.Background(), contactapi.Request{Persona: "student", Message: "hi", Anonymous: true})
			if tc.err {
				if err == nil {
					t.Fatalf("expected error, got %+v", res)
				}
				return
			}
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if res != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, res)
			}
			if got.Skills == nil || !got.Anonymous {
				t.Fatalf("expected skills array and anonymous flag on the wire, got %+v", got)
			}
		})
	}
}

func TestHTTPSubmitterNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	if _, err := NewHTTPSubmitter(endpoint).Submit(context.Background(), contactapi.Request{}); err == nil {
		t.Fatal("expected transport error")
	}
}
