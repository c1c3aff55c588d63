package capture

import "testing"

func TestParseCookieHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   [][2]string // name, value pairs in order
	}{
		{
			name:   "two cookies",
			header: "a=1; b=2",
			want:   [][2]string{{"a", "1"}, {"b", "2"}},
		},
		{
			name:   "single cookie",
			header: "session=abc123",
			want:   [][2]string{{"session", "abc123"}},
		},
		{
			name:   "value containing equals",
			header: "token=a=b=c",
			want:   [][2]string{{"token", "a=b=c"}},
		},
		{
			name:   "empty value",
			header: "flag=",
			want:   [][2]string{{"flag", ""}},
		},
		{
			name:   "extra whitespace and empty fragments",
			header: " a=1 ;; b=2 ; ",
			want:   [][2]string{{"a", "1"}, {"b", "2"}},
		},
		{
			name:   "nameless fragment skipped",
			header: "=orphan; a=1",
			want:   [][2]string{{"a", "1"}},
		},
		{
			name:   "empty header",
			header: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCookieHeader(tt.header)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d cookies, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, w := range tt.want {
				if got[i].Name != w[0] || got[i].Value != w[1] {
					t.Errorf("cookie[%d] = %s=%s, want %s=%s",
						i, got[i].Name, got[i].Value, w[0], w[1])
				}
			}
		})
	}
}
