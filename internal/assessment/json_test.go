package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "bare object",
			input: `{"score": 80}`,
			want:  `{"score": 80}`,
			ok:    true,
		},
		{
			name:  "object wrapped in prose",
			input: "Here is the rating:\n{\"score\": 80}\nHope that helps!",
			want:  `{"score": 80}`,
			ok:    true,
		},
		{
			name:  "object inside a markdown fence",
			input: "```json\n{\"score\": 80}\n```",
			want:  `{"score": 80}`,
			ok:    true,
		},
		{
			name:  "array wrapped in prose",
			input: `Sure! ["q1", "q2"] as requested.`,
			want:  `["q1", "q2"]`,
			ok:    true,
		},
		{
			name:  "nested braces",
			input: `{"metrics": {"a": {"score": 1}}}`,
			want:  `{"metrics": {"a": {"score": 1}}}`,
			ok:    true,
		},
		{
			name:  "braces inside string literals do not close early",
			input: `{"feedback": "uses {braces} and \"quotes\""}`,
			want:  `{"feedback": "uses {braces} and \"quotes\""}`,
			ok:    true,
		},
		{
			name:  "first value wins",
			input: `{"a": 1} {"b": 2}`,
			want:  `{"a": 1}`,
			ok:    true,
		},
		{
			name:  "no json at all",
			input: "I cannot answer that.",
			ok:    false,
		},
		{
			name:  "unbalanced value",
			input: `{"score": 80`,
			ok:    false,
		},
		{
			name:  "empty input",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSON(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
