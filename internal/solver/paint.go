package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Finishes.
const (
	Glossy = 0
	Matte  = 1
)

const impossible = "IMPOSSIBLE"

// Batch size limits. The batch is solved in memory proportional to both.
const (
	MaxColors = 10000
	MaxPairs  = 100000
)

// PaintRequest is one paint batch: how many colors exist, how many
// customers there are, and what each customer will accept. A demand row
// is [T, X1, Y1, ..., XT, YT]: T pairs of 1-based color X and finish Y.
type PaintRequest struct {
	Colors    int     `json:"colors"`
	Customers int     `json:"customers"`
	Demands   Demands `json:"demands"`
}

// Demands accepts either a JSON array of rows or a string holding one,
// since batch clients post the matrix as a form-encoded string.
type Demands [][]int

func (d *Demands) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}

	var rows [][]int
	if err := json.Unmarshal(b, &rows); err != nil {
		return err
	}
	*d = rows
	return nil
}

type preference struct {
	color  int
	finish int
}

// Paint is the default solver. It finds the batch with the fewest matte
// colors that satisfies every customer, or reports IMPOSSIBLE.
type Paint struct{}

func (Paint) Solve(ctx context.Context, input []byte) ([]byte, error) {
	var req PaintRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	prefs, err := req.preferences()
	if err != nil {
		return nil, err
	}

	finishes, ok := solvePaint(ctx, req.Colors, prefs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return []byte(impossible), nil
	}

	parts := make([]string, len(finishes))
	for i, f := range finishes {
		parts[i] = strconv.Itoa(f)
	}
	return []byte(strings.Join(parts, " ")), nil
}

func (r PaintRequest) preferences() ([][]preference, error) {
	if r.Colors <= 0 || r.Colors > MaxColors {
		return nil, fmt.Errorf("%w: colors must be within [1, %d]", ErrInvalidInput, MaxColors)
	}
	if r.Customers != len(r.Demands) {
		return nil, fmt.Errorf("%w: %d customers but %d demand rows", ErrInvalidInput, r.Customers, len(r.Demands))
	}

	out := make([][]preference, len(r.Demands))
	pairs := 0
	for i, row := range r.Demands {
		if len(row) == 0 || row[0] <= 0 || len(row) != 1+2*row[0] {
			return nil, fmt.Errorf("%w: customer %d: malformed demand row", ErrInvalidInput, i+1)
		}
		pairs += row[0]
		if pairs > MaxPairs {
			return nil, fmt.Errorf("%w: more than %d demand pairs", ErrInvalidInput, MaxPairs)
		}

		mattes := 0
		for j := 1; j < len(row); j += 2 {
			p := preference{color: row[j], finish: row[j+1]}
			if p.color < 1 || p.color > r.Colors {
				return nil, fmt.Errorf("%w: customer %d: color %d out of range", ErrInvalidInput, i+1, p.color)
			}
			if p.finish != Glossy && p.finish != Matte {
				return nil, fmt.Errorf("%w: customer %d: unknown finish %d", ErrInvalidInput, i+1, p.finish)
			}
			if p.finish == Matte {
				mattes++
			}
			out[i] = append(out[i], p)
		}
		if mattes > 1 {
			return nil, fmt.Errorf("%w: customer %d: more than one matte preference", ErrInvalidInput, i+1)
		}
	}
	return out, nil
}

// solvePaint starts all glossy and flips a color to matte only when some
// customer can be satisfied no other way. Flips are monotonic, so the
// loop ends after at most colors+1 passes.
func solvePaint(ctx context.Context, colors int, prefs [][]preference) ([]int, bool) {
	finishes := make([]int, colors)

	for {
		if ctx.Err() != nil {
			return nil, false
		}

		flipped := false
		for _, customer := range prefs {
			if satisfied(finishes, customer) {
				continue
			}

			matte, ok := matteChoice(customer)
			if !ok || finishes[matte.color-1] == Matte {
				return nil, false
			}
			finishes[matte.color-1] = Matte
			flipped = true
		}

		if !flipped {
			return finishes, true
		}
	}
}

func satisfied(finishes []int, customer []preference) bool {
	for _, p := range customer {
		if finishes[p.color-1] == p.finish {
			return true
		}
	}
	return false
}

func matteChoice(customer []preference) (preference, bool) {
	for _, p := range customer {
		if p.finish == Matte {
			return p, true
		}
	}
	return preference{}, false
}
