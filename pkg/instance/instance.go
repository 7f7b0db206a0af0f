package instance

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/jakechorley/group-allocation/pkg/core/model"
)

// Default preference range for generated instances
const (
	DefaultMinPreference = 1
	DefaultMaxPreference = 100000
)

// FatalInputError is returned for any malformed or missing instance input
type FatalInputError struct {
	Source string
	Line   int
	Reason string
	Err    error
}

func (e *FatalInputError) Error() string {
	msg := "invalid instance input"
	if e.Source != "" {
		msg += " " + e.Source
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FatalInputError) Unwrap() error {
	return e.Err
}

// Parse reads an instance: a "persons groups" header followed by one row of
// group preferences per person. Rows may wrap across lines; only the token
// count matters.
func Parse(r io.Reader) (*model.ProblemInstance, error) {
	tokens := newTokenReader(r)

	persons, err := tokens.nextInt("persons")
	if err != nil {
		return nil, err
	}
	groups, err := tokens.nextInt("groups")
	if err != nil {
		return nil, err
	}
	if persons <= 0 || groups <= 0 {
		return nil, &FatalInputError{Line: tokens.line, Reason: fmt.Sprintf("persons and groups must be positive, got %d %d", persons, groups)}
	}

	rows := make([][]int, persons)
	for p := range rows {
		rows[p] = make([]int, groups)
		for g := range rows[p] {
			value, err := tokens.nextInt(fmt.Sprintf("preference of person %d for group %d", p, g))
			if err != nil {
				return nil, err
			}
			if value < 0 {
				return nil, &FatalInputError{Line: tokens.line, Reason: fmt.Sprintf("negative preference %d for person %d, group %d", value, p, g)}
			}
			rows[p][g] = value
		}
	}

	if extra, ok := tokens.next(); ok {
		return nil, &FatalInputError{Line: tokens.line, Reason: fmt.Sprintf("unexpected trailing value %q", extra)}
	}
	if tokens.err != nil {
		return nil, &FatalInputError{Line: tokens.line, Reason: "failed to read input", Err: tokens.err}
	}

	inst, err := model.NewProblemInstance(persons, groups, rows)
	if err != nil {
		return nil, &FatalInputError{Reason: "invalid preference matrix", Err: err}
	}
	return inst, nil
}

// LoadFile parses the instance stored at path
func LoadFile(path string) (*model.ProblemInstance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FatalInputError{Source: path, Reason: "failed to open instance file", Err: err}
	}
	defer f.Close()

	inst, err := Parse(f)
	if err != nil {
		var fatal *FatalInputError
		if errors.As(err, &fatal) {
			fatal.Source = path
		}
		return nil, err
	}
	return inst, nil
}

// Write emits inst in the format read by Parse
func Write(w io.Writer, inst *model.ProblemInstance) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", inst.Persons(), inst.Groups())
	for p := 0; p < inst.Persons(); p++ {
		for g := 0; g < inst.Groups(); g++ {
			if g > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.Itoa(inst.Preference(p, g)))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write instance: %w", err)
	}
	return nil
}

// Generate builds a random instance with preferences drawn uniformly from
// [minPref, maxPref].
func Generate(rng *rand.Rand, persons, groups, minPref, maxPref int) (*model.ProblemInstance, error) {
	if minPref < 0 || maxPref < minPref {
		return nil, fmt.Errorf("invalid preference range [%d, %d]", minPref, maxPref)
	}

	// The width fits in uint64 even when the range spans every int
	width := uint64(maxPref-minPref) + 1
	rows := make([][]int, max(persons, 0))
	for p := range rows {
		rows[p] = make([]int, max(groups, 0))
		for g := range rows[p] {
			rows[p][g] = minPref + int(rng.Uint64N(width))
		}
	}

	return model.NewProblemInstance(persons, groups, rows)
}

// GenerateRanked builds a random instance where every person ranks the
// groups: each row is a random permutation of 1..groups.
func GenerateRanked(rng *rand.Rand, persons, groups int) (*model.ProblemInstance, error) {
	rows := make([][]int, max(persons, 0))
	for p := range rows {
		rows[p] = rng.Perm(max(groups, 0))
		for g := range rows[p] {
			rows[p][g]++
		}
	}

	return model.NewProblemInstance(persons, groups, rows)
}

// FromRows builds an instance from a matrix of cell strings, as read from a
// spreadsheet. Blank cells are skipped; every other cell must be a
// non-negative integer.
func FromRows(source string, rows [][]string) (*model.ProblemInstance, error) {
	if len(rows) == 0 {
		return nil, &FatalInputError{Source: source, Reason: "no preference rows"}
	}

	matrix := make([][]int, 0, len(rows))
	groups := -1
	for i, row := range rows {
		values := make([]int, 0, len(row))
		for j, cell := range row {
			if cell == "" {
				continue
			}
			value, err := strconv.Atoi(cell)
			if err != nil {
				return nil, &FatalInputError{Source: source, Line: i + 1, Reason: fmt.Sprintf("column %d is not an integer", j+1), Err: err}
			}
			values = append(values, value)
		}
		if groups == -1 {
			groups = len(values)
		}
		if len(values) != groups {
			return nil, &FatalInputError{Source: source, Line: i + 1, Reason: fmt.Sprintf("expected %d preferences, got %d", groups, len(values))}
		}
		matrix = append(matrix, values)
	}

	inst, err := model.NewProblemInstance(len(matrix), groups, matrix)
	if err != nil {
		return nil, &FatalInputError{Source: source, Reason: "invalid preference matrix", Err: err}
	}
	return inst, nil
}

// tokenReader splits input into whitespace separated words and tracks the
// current line for error messages
type tokenReader struct {
	scanner *bufio.Scanner
	words   []string
	line    int
	err     error
}

func newTokenReader(r io.Reader) *tokenReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &tokenReader{scanner: scanner}
}

func (t *tokenReader) next() (string, bool) {
	for len(t.words) == 0 {
		if !t.scanner.Scan() {
			t.err = t.scanner.Err()
			return "", false
		}
		t.line++
		t.words = strings.Fields(t.scanner.Text())
	}
	word := t.words[0]
	t.words = t.words[1:]
	return word, true
}

func (t *tokenReader) nextInt(what string) (int, error) {
	word, ok := t.next()
	if !ok {
		if t.err != nil {
			return 0, &FatalInputError{Line: t.line, Reason: "failed to read " + what, Err: t.err}
		}
		return 0, &FatalInputError{Line: t.line, Reason: "unexpected end of input reading " + what}
	}
	value, err := strconv.Atoi(word)
	if err != nil {
		return 0, &FatalInputError{Line: t.line, Reason: fmt.Sprintf("%s is not an integer", what), Err: err}
	}
	return value, nil
}
