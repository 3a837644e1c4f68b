package solver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaint_Solve(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single matte request",
			input: `{"colors":5,"customers":3,"demands":[[1,1,1],[2,1,0,2,0],[1,5,0]]}`,
			want:  "1 0 0 0 0",
		},
		{
			name:  "conflicting customers",
			input: `{"colors":1,"customers":2,"demands":[[1,1,0],[1,1,1]]}`,
			want:  "IMPOSSIBLE",
		},
		{
			name:  "flip cascades",
			input: `{"colors":2,"customers":3,"demands":[[1,1,1],[2,1,0,2,1],[1,2,0]]}`,
			want:  "IMPOSSIBLE",
		},
		{
			name:  "all glossy",
			input: `{"colors":3,"customers":2,"demands":[[1,1,0],[2,2,0,3,1]]}`,
			want:  "0 0 0",
		},
		{
			name:  "demands as encoded string",
			input: `{"colors":2,"customers":2,"demands":"[[1,2,1],[2,1,0,2,0]]"}`,
			want:  "0 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Paint{}.Solve(context.Background(), []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestPaint_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: `colors=1`},
		{name: "no colors", input: `{"colors":0,"customers":0,"demands":[]}`},
		{name: "colors overflow", input: `{"colors":4611686018427387904,"customers":0,"demands":[]}`},
		{name: "colors over limit", input: `{"colors":1000000000,"customers":0,"demands":[]}`},
		{name: "customer count mismatch", input: `{"colors":1,"customers":2,"demands":[[1,1,0]]}`},
		{name: "row length mismatch", input: `{"colors":2,"customers":1,"demands":[[2,1,0]]}`},
		{name: "color out of range", input: `{"colors":1,"customers":1,"demands":[[1,2,0]]}`},
		{name: "unknown finish", input: `{"colors":1,"customers":1,"demands":[[1,1,2]]}`},
		{name: "two mattes", input: `{"colors":2,"customers":1,"demands":[[2,1,1,2,1]]}`},
		{name: "bad demand string", input: `{"colors":1,"customers":1,"demands":"[[1,1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Paint{}.Solve(context.Background(), []byte(tt.input))
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestPaint_TooManyDemandPairs(t *testing.T) {
	pairs := MaxPairs/2 + 1
	row := make([]int, 1, 1+2*pairs)
	row[0] = pairs
	for range pairs {
		row = append(row, 1, Glossy)
	}

	input, err := json.Marshal(PaintRequest{Colors: 1, Customers: 2, Demands: Demands{row, row}})
	require.NoError(t, err)

	_, err = Paint{}.Solve(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "demand pairs")
}

func TestPaint_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Paint{}.Solve(ctx, []byte(`{"colors":1,"customers":1,"demands":[[1,1,0]]}`))
	require.ErrorIs(t, err, context.Canceled)
}
