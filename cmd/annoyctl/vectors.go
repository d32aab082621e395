package main

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// readVectorFile parses one vector per line, whitespace-separated float32
// components, all lines the same length. Used by both `build` (the corpus
// to index) and `query` (a single query vector file).
func readVectorFile(path string) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "annoyctl: open vector file")
	}
	defer f.Close()

	var vecs [][]float32
	dim := -1
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if dim == -1 {
			dim = len(fields)
		} else if len(fields) != dim {
			return nil, errors.Errorf("annoyctl: line %d has %d components, want %d", lineNo, len(fields), dim)
		}
		v := make([]float32, len(fields))
		for i, f := range fields {
			x, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "annoyctl: line %d component %d", lineNo, i)
			}
			v[i] = float32(x)
		}
		vecs = append(vecs, v)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "annoyctl: read vector file")
	}
	return vecs, nil
}
