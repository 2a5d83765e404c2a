package insight

import "testing"

func TestCleanCypherQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain query",
			in:   "MATCH (n) RETURN n",
			want: "MATCH (n) RETURN n",
		},
		{
			name: "cypher fence",
			in:   "```cypher\nMATCH (st:Station) RETURN st.name\n```",
			want: "MATCH (st:Station) RETURN st.name",
		},
		{
			name: "bare fence",
			in:   "```\nMATCH (rd:Reading) RETURN rd.aqi\n```",
			want: "MATCH (rd:Reading) RETURN rd.aqi",
		},
		{
			name: "surrounding whitespace",
			in:   "  MATCH (n) RETURN n  \n",
			want: "MATCH (n) RETURN n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanCypherQuery(tt.in); got != tt.want {
				t.Errorf("cleanCypherQuery(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewEngineModelSelection(t *testing.T) {
	tests := []struct {
		key      string
		wantName string
	}{
		{"flash", "gemini-flash-latest"},
		{"pro", "gemini-pro-latest"},
		{"flash-2", "gemini-2.0-flash"},
		{"", "gemini-flash-latest"},
		{"nonsense", "gemini-flash-latest"},
	}
	for _, tt := range tests {
		e := NewEngine(nil, nil, tt.key)
		if e.modelName != tt.wantName {
			t.Errorf("NewEngine(%q) model = %q, want %q", tt.key, e.modelName, tt.wantName)
		}
	}
}
