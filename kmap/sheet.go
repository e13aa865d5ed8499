package kmap

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// A Sheet holds answers to the counter maps, keyed by input name.
//
//	answers:
//	  J_A:
//	    - ["0", "0", "1", "0"]
//	    - ["x", "x", "x", "x"]
type Sheet struct {
	Answers map[string][][]string `yaml:"answers"`
}

// LoadSheet decodes a YAML answer sheet.
func LoadSheet(r io.Reader) (map[string]Grid, error) {
	var s Sheet

	if err := yaml.NewDecoder(r).Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode answer sheet: %w", err)
	}

	answers := make(map[string]Grid, len(s.Answers))

	for name, rows := range s.Answers {
		g, err := ParseGrid(rows)
		if err != nil {
			return nil, fmt.Errorf("answer %s: %w", name, err)
		}

		answers[name] = g
	}

	return answers, nil
}

// GradeSheet grades every counter map. Maps without an answer are graded as
// entirely empty.
func GradeSheet(answers map[string]Grid) (map[string]Result, error) {
	results := make(map[string]Result)

	for _, m := range ExcitationMaps() {
		answer, ok := answers[m.Name]
		if !ok {
			answer = emptyLike(m.Cells)
		}

		res, err := Grade(answer, m.Cells)
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", m.Name, err)
		}

		results[m.Name] = res
	}

	return results, nil
}

func emptyLike(g Grid) Grid {
	e := make(Grid, len(g))
	for r := range g {
		e[r] = make([]Cell, len(g[r]))
	}

	return e
}
