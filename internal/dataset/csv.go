package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read parses a course table from r. The first row must be a header; columns
// are located by name (see columnCandidates) so their order does not matter.
// A header with no data rows yields an empty Dataset, not an error.
func Read(r io.Reader) (Dataset, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return Dataset{}, fmt.Errorf("cannot parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return Dataset{}, ErrNoHeader
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = normalizeCell(cell)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return Dataset{}, err
	}

	items := make([]Item, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		line := n + 2
		it, err := parseRow(row, cols)
		if err != nil {
			return Dataset{}, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, it)
	}
	return New(items), nil
}

func parseRow(row []string, cols columnIndex) (Item, error) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}

	label, err := ParseLabel(cell(cols.cluster))
	if err != nil {
		return Item{}, err
	}
	f1, err := parseScore("factor1_score", cell(cols.factor1))
	if err != nil {
		return Item{}, err
	}
	f2, err := parseScore("factor2_score", cell(cols.factor2))
	if err != nil {
		return Item{}, err
	}
	order, err := parseOrder(cell(cols.order))
	if err != nil {
		return Item{}, err
	}
	desc := cleanCell(cell(cols.description))
	if desc == "" {
		desc = DescriptionPlaceholder
	}
	return Item{
		Cluster:          label,
		Factor1:          f1,
		Factor2:          f2,
		Name:             cleanCell(cell(cols.name)),
		Description:      desc,
		RecommendedOrder: order,
	}, nil
}

// ParseLabel converts a cluster cell to a Label. Integers, integral floats
// such as "3.0" and fullwidth digits are accepted.
func ParseLabel(s string) (Label, error) {
	v := normalizeCell(s)
	if v == "" {
		return 0, errors.New("empty cluster label")
	}
	if n, err := strconv.Atoi(v); err == nil {
		return Label(n), nil
	}
	f, err := strconv.ParseFloat(v, 64)
	n, ok := integral(f)
	if err != nil || !ok {
		return 0, fmt.Errorf("invalid cluster label %q", s)
	}
	return Label(n), nil
}

// integral converts f to int when it is a whole number within int32 range.
func integral(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func parseScore(name, s string) (float64, error) {
	v := normalizeCell(s)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return f, nil
}

func parseOrder(s string) (int, error) {
	v := normalizeCell(s)
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	n, ok := integral(f)
	if err != nil || !ok {
		return 0, fmt.Errorf("invalid recommended_order %q", s)
	}
	return n, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if cleanCell(c) != "" {
			return false
		}
	}
	return true
}

// Write emits ds as CSV with the canonical header.
func Write(w io.Writer, ds Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(canonicalHeader); err != nil {
		return err
	}
	for _, it := range ds.Items {
		rec := []string{
			it.Cluster.String(),
			strconv.FormatFloat(it.Factor1, 'f', -1, 64),
			strconv.FormatFloat(it.Factor2, 'f', -1, 64),
			it.Name,
			it.Description,
			strconv.Itoa(it.RecommendedOrder),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
