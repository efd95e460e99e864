package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectTaskLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"focus"},
			want: []string{"focus"},
		},
		{
			name: "direct task id first token",
			in:   []string{"focus", "task-abc123"},
			want: []string{"focus", "tasks", "show", "task-abc123"},
		},
		{
			name: "direct task id after value flag",
			in:   []string{"focus", "--dir", "./tmp-data", "task-abc123"},
			want: []string{"focus", "--dir", "./tmp-data", "tasks", "show", "task-abc123"},
		},
		{
			name: "direct task id after equals flag",
			in:   []string{"focus", "--energy=low", "task-abc123"},
			want: []string{"focus", "--energy=low", "tasks", "show", "task-abc123"},
		},
		{
			name: "direct task id after bool flag",
			in:   []string{"focus", "--pretty", "task-abc123"},
			want: []string{"focus", "--pretty", "tasks", "show", "task-abc123"},
		},
		{
			name: "direct task id after double dash",
			in:   []string{"focus", "--format", "text", "--", "task-abc123"},
			want: []string{"focus", "--format", "text", "--", "tasks", "show", "task-abc123"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"focus", "queue", "add", "task-abc123"},
			want: []string{"focus", "queue", "add", "task-abc123"},
		},
		{
			name: "bare prefix not rewritten",
			in:   []string{"focus", "task-"},
			want: []string{"focus", "task-"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectTaskLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v; want %v", got, tt.want)
			}
		})
	}
}
