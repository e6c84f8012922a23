package dataset

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// columnCandidates lists accepted header names per field. The first entry is
// the canonical name written by Write.
var columnCandidates = struct {
	Cluster     []string
	Factor1     []string
	Factor2     []string
	Name        []string
	Description []string
	Order       []string
}{
	Cluster:     []string{"cluster", "クラスター", "クラスタ"},
	Factor1:     []string{"factor1_score", "factor1", "理論度"},
	Factor2:     []string{"factor2_score", "factor2", "基礎度"},
	Name:        []string{"display_name", "コース名（短縮）", "コース名", "name"},
	Description: []string{"description", "評価の根拠と特記事項", "内容"},
	Order:       []string{"recommended_order", "推奨順", "order"},
}

// canonicalHeader is the header row produced by Write.
var canonicalHeader = []string{
	columnCandidates.Cluster[0],
	columnCandidates.Factor1[0],
	columnCandidates.Factor2[0],
	columnCandidates.Name[0],
	columnCandidates.Description[0],
	columnCandidates.Order[0],
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

// normalizeCell is cleanCell plus NFKC, so fullwidth digits and brackets in
// headers and numeric cells compare equal to their ASCII forms.
func normalizeCell(v string) string {
	return strings.TrimSpace(norm.NFKC.String(cleanCell(v)))
}

func findColumn(header []string, candidates []string) int {
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, normalizeCell(cand)) {
				return i
			}
		}
	}
	return -1
}

type columnIndex struct {
	cluster, factor1, factor2, name, description, order int
}

func resolveColumns(header []string) (columnIndex, error) {
	idx := columnIndex{
		cluster:     findColumn(header, columnCandidates.Cluster),
		factor1:     findColumn(header, columnCandidates.Factor1),
		factor2:     findColumn(header, columnCandidates.Factor2),
		name:        findColumn(header, columnCandidates.Name),
		description: findColumn(header, columnCandidates.Description),
		order:       findColumn(header, columnCandidates.Order),
	}
	var missing []string
	if idx.cluster < 0 {
		missing = append(missing, columnCandidates.Cluster[0])
	}
	if idx.factor1 < 0 {
		missing = append(missing, columnCandidates.Factor1[0])
	}
	if idx.factor2 < 0 {
		missing = append(missing, columnCandidates.Factor2[0])
	}
	if idx.name < 0 {
		missing = append(missing, columnCandidates.Name[0])
	}
	if idx.order < 0 {
		missing = append(missing, columnCandidates.Order[0])
	}
	if len(missing) > 0 {
		return idx, &MissingColumnError{Columns: missing}
	}
	return idx, nil
}
