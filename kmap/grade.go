package kmap

import "fmt"

// Verdict is the outcome of grading one cell.
type Verdict int

// The verdicts.
const (
	Correct Verdict = iota
	Incorrect
	Missing
)

// String returns the name of the verdict.
func (v Verdict) String() string {
	switch v {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Missing:
		return "empty"
	default:
		return "unknown"
	}
}

// MarshalText encodes the verdict as its name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Result is a graded answer.
type Result struct {
	// Verdicts has one entry per cell of the answer.
	Verdicts [][]Verdict `json:"verdicts"`

	// Filled is the answer with every empty or wrong cell replaced by the
	// key.
	Filled Grid `json:"filled"`

	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Missing   int `json:"missing"`
}

// Perfect tells if every cell is correct.
func (r Result) Perfect() bool {
	return r.Incorrect == 0 && r.Missing == 0
}

// Grade compares an answer to a key cell by cell. A cell is correct only if
// it holds exactly the key value, so a don't care must be answered with X.
func Grade(answer, key Grid) (Result, error) {
	if !answer.sameShape(key) {
		return Result{}, fmt.Errorf("answer does not have the shape of the key")
	}

	res := Result{
		Verdicts: make([][]Verdict, len(key)),
		Filled:   key.Clone(),
	}

	for r := range key {
		res.Verdicts[r] = make([]Verdict, len(key[r]))

		for c, want := range key[r] {
			switch got := answer[r][c]; {
			case got == Empty:
				res.Verdicts[r][c] = Missing
				res.Missing++
			case got == want:
				res.Verdicts[r][c] = Correct
				res.Correct++
			default:
				res.Verdicts[r][c] = Incorrect
				res.Incorrect++
			}
		}
	}

	return res, nil
}
