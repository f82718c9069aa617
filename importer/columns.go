package importer

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Semantic fields a worksheet column can be mapped to.
const (
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldDueDate     = "dueDate"
	FieldStatus      = "status"
)

// Fields lists the semantic fields in report order.
var Fields = []string{FieldDescription, FieldAmount, FieldDueDate, FieldStatus}

// FieldCandidates holds, per semantic field, the header names recognized for
// it in priority order. Names are compared case-insensitively.
type FieldCandidates struct {
	Description []string
	Amount      []string
	DueDate     []string
	Status      []string
}

func DefaultCandidates() FieldCandidates {
	return FieldCandidates{
		Description: []string{"descricao", "descrição", "description", "desc"},
		Amount:      []string{"valor", "amount", "preco", "preço", "price"},
		DueDate:     []string{"vencimento", "data", "date", "due_date", "duedate"},
		Status:      []string{"status", "situacao", "situação"},
	}
}

// For returns the candidate list of a semantic field.
func (c FieldCandidates) For(field string) []string {
	switch field {
	case FieldDescription:
		return c.Description
	case FieldAmount:
		return c.Amount
	case FieldDueDate:
		return c.DueDate
	case FieldStatus:
		return c.Status
	default:
		return nil
	}
}

// WithExtra appends additional aliases after the built-in ones, skipping
// names already present.
func (c FieldCandidates) WithExtra(extra FieldCandidates) FieldCandidates {
	return FieldCandidates{
		Description: appendUnique(c.Description, extra.Description),
		Amount:      appendUnique(c.Amount, extra.Amount),
		DueDate:     appendUnique(c.DueDate, extra.DueDate),
		Status:      appendUnique(c.Status, extra.Status),
	}
}

func appendUnique(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, name := range list {
			key := normalizeHeader(name)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// ResolveField returns the value of the first column matching one of the
// candidates. Exact header matches are tried before substring matches, and
// a matching column with an unset value does not count as a match. The
// result is an empty cell when nothing matches.
func ResolveField(row RawRow, candidates []string) Cell {
	if header, ok := matchHeader(row.Headers, candidates, func(header string) bool {
		return !row.Get(header).IsUnset()
	}); ok {
		return row.Get(header)
	}
	return Cell{}
}

// matchHeader runs the exact pass and then the substring pass. accept filters
// matched headers; nil accepts all.
func matchHeader(headers []string, candidates []string, accept func(string) bool) (string, bool) {
	for _, candidate := range candidates {
		want := normalizeHeader(candidate)
		if want == "" {
			continue
		}
		for _, header := range headers {
			if normalizeHeader(header) == want && (accept == nil || accept(header)) {
				return header, true
			}
		}
	}

	for _, candidate := range candidates {
		want := normalizeHeader(candidate)
		if want == "" {
			continue
		}
		for _, header := range headers {
			if strings.Contains(normalizeHeader(header), want) && (accept == nil || accept(header)) {
				return header, true
			}
		}
	}

	return "", false
}

func normalizeHeader(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// FieldMap is the per-workbook view of which header each semantic field maps
// to. Row parsing still resolves per row; the map is used for reporting.
type FieldMap struct {
	Headers     []string            `json:"headers"`
	Resolved    map[string]string   `json:"resolved"`
	Unresolved  []string            `json:"unresolved,omitempty"`
	Suggestions map[string][]string `json:"suggestions,omitempty"`
}

// Header returns the header mapped to a field.
func (m FieldMap) Header(field string) (string, bool) {
	header, ok := m.Resolved[field]
	return header, ok
}

const maxSuggestions = 3

// BuildFieldMap resolves every semantic field against a header row. Fields
// left unresolved get up to three fuzzy-matched header suggestions.
func BuildFieldMap(headers []string, candidates FieldCandidates) FieldMap {
	fieldMap := FieldMap{
		Headers:     append([]string(nil), headers...),
		Resolved:    make(map[string]string, len(Fields)),
		Suggestions: make(map[string][]string),
	}

	claimed := make(map[string]struct{}, len(Fields))
	for _, field := range Fields {
		header, ok := matchHeader(headers, candidates.For(field), nil)
		if !ok {
			fieldMap.Unresolved = append(fieldMap.Unresolved, field)
			continue
		}
		fieldMap.Resolved[field] = header
		claimed[header] = struct{}{}
	}

	for _, field := range fieldMap.Unresolved {
		if suggestions := suggestHeaders(headers, candidates.For(field), claimed); len(suggestions) > 0 {
			fieldMap.Suggestions[field] = suggestions
		}
	}

	return fieldMap
}

func suggestHeaders(headers []string, candidates []string, claimed map[string]struct{}) []string {
	open := make([]string, 0, len(headers))
	for _, header := range headers {
		if _, ok := claimed[header]; ok {
			continue
		}
		open = append(open, header)
	}
	if len(open) == 0 {
		return nil
	}

	best := make(map[int]int)
	for index, header := range open {
		for _, candidate := range candidates {
			distance := headerDistance(header, candidate)
			if distance < 0 {
				continue
			}
			if current, ok := best[index]; !ok || distance < current {
				best[index] = distance
			}
		}
	}

	indexes := make([]int, 0, len(best))
	for index := range best {
		indexes = append(indexes, index)
	}
	sort.Slice(indexes, func(i, j int) bool {
		if best[indexes[i]] != best[indexes[j]] {
			return best[indexes[i]] < best[indexes[j]]
		}
		return indexes[i] < indexes[j]
	})

	if len(indexes) > maxSuggestions {
		indexes = indexes[:maxSuggestions]
	}
	suggestions := make([]string, len(indexes))
	for i, index := range indexes {
		suggestions[i] = open[index]
	}
	return suggestions
}

// headerDistance ranks a header against a candidate in both directions, so
// abbreviations ("Vlr") and decorated names ("Valor Pago (R$)") both score.
// It returns -1 when neither is a fuzzy subsequence of the other.
func headerDistance(header, candidate string) int {
	header = normalizeHeader(header)
	if header == "" {
		return -1
	}
	forward := fuzzy.RankMatchNormalizedFold(candidate, header)
	backward := fuzzy.RankMatchNormalizedFold(header, candidate)
	switch {
	case forward < 0:
		return backward
	case backward < 0:
		return forward
	case backward < forward:
		return backward
	default:
		return forward
	}
}
