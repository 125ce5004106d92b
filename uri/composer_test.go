package uri

import "testing"

type nameQuery struct {
	Name string
}

func TestCompose(t *testing.T) {
	c := NewComposer()
	tests := []struct {
		name       string
		base       string
		path       string
		query      any
		asSegments bool
		want       string
	}{
		{"no base", "", "http://localhost/hello", nil, false, "http://localhost/hello"},
		{"base without slash", "http://localhost:16000", "hello", nil, false, "http://localhost:16000/hello"},
		{"base and path slashes", "http://localhost:16000/", "/hello", nil, false, "http://localhost:16000/hello"},
		{"path keeps inner slashes", "http://localhost:16000", "/api/v1/", nil, false, "http://localhost:16000/api/v1/"},
		{"query string", "http://localhost:16000", "hello", nameQuery{"test"}, false, "http://localhost:16000/hello?Name=test"},
		{"query escapes", "http://localhost:16000", "hello", nameQuery{"test<>&;"}, false, "http://localhost:16000/hello?Name=test%3c%3e%26%3b"},
		{"segments escape", "http://localhost:16000", "hello", nameQuery{"test<>&;"}, true, "http://localhost:16000/hello/test%3c%3e%26%3b"},
		{"multiple params", "", "/x", Params{{"a", 1}, {"b", "two words"}}, false, "/x?a=1&b=two+words"},
		{"multiple segments", "", "/x", Params{{"a", 1}, {"b", 2}}, true, "/x/1/2"},
		{"empty params", "http://h", "x", Params{}, false, "http://h/x"},
		{"empty struct", "http://h", "x", struct{}{}, true, "http://h/x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Compose(tt.base, tt.path, tt.query, tt.asSegments); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestToQueryStringAndSegments(t *testing.T) {
	q := Params{{"Name", "Matt"}, {"Id", 3}}
	if got := ToQueryString(q); got != "?Name=Matt&Id=3" {
		t.Errorf("unexpected query %q", got)
	}
	if got := ToSegments(q); got != "/Matt/3" {
		t.Errorf("unexpected segments %q", got)
	}
	if ToQueryString(nil) != "" || ToSegments(nil) != "" {
		t.Error("expected empty rendering for nil")
	}
}
