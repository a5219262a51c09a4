package sqlite

import "testing"

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		want    string
		wantErr bool
	}{
		{name: "memory", dsn: "sqlite://:memory:", want: ":memory:"},
		{name: "absolute", dsn: "sqlite:///var/lib/scenebridge/journal.db", want: "/var/lib/scenebridge/journal.db"},
		{name: "explicit relative", dsn: "sqlite://./journal.db", want: "./journal.db"},
		{name: "bare relative", dsn: "sqlite://journal.db", want: "./journal.db"},
		{name: "escaped path", dsn: "sqlite://my%20journal.db", want: "./my journal.db"},
		{name: "query string", dsn: "sqlite://journal.db?_pragma=foreign_keys(1)", want: "./journal.db?_pragma=foreign_keys(1)"},
		{name: "wrong scheme", dsn: "postgres://localhost/db", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDSN(tt.dsn)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
