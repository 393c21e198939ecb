package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseTaskParams(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{"empty", nil, nil, false},
		{"single", []string{"message=hello"}, map[string]string{"message": "hello"}, false},
		{
			"multiple",
			[]string{"operation=create", "file_path=/tmp/x", "content=a=b"},
			map[string]string{"operation": "create", "file_path": "/tmp/x", "content": "a=b"},
			false,
		},
		{"no equals", []string{"message"}, nil, true},
		{"empty key", []string{"=value"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTaskParams(tt.pairs)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseTaskParams mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
