// Package terms widens a search term into its synonym and translation
// variants. Matching is plain substring containment on normalized text.
package terms

import (
	"sort"
	"strings"

	"job_seeker/internal/textnorm"
)

// synonyms maps a normalized topic key to related phrasings. Built once.
var synonyms = buildTable(map[string][]string{
	"bioinformatica": {
		"bioinformatics", "biologia computacional", "computational biology",
		"genomica", "genomics", "bioinformata", "bioinformatician",
	},
	"bioinformatics": {
		"bioinformatica", "computational biology", "biologia computacional",
		"genomics", "bioinformatician",
	},
	"cientista de dados": {
		"data scientist", "analista de dados", "data analyst",
		"estatistico", "statistician", "ciencia de dados",
	},
	"data scientist": {
		"cientista de dados", "data analyst", "analista de dados",
		"statistician", "estatistico", "data science",
	},
	"ciencia de dados": {
		"data science", "cientista de dados", "data scientist",
	},
	"data science": {
		"ciencia de dados", "data scientist", "cientista de dados",
	},
	"machine learning": {
		"aprendizado de maquina", "inteligencia artificial", "artificial intelligence",
		"deep learning",
	},
	"aprendizado de maquina": {
		"machine learning", "inteligencia artificial", "deep learning",
	},
	"biologia molecular": {
		"molecular biology", "biologo molecular", "molecular biologist",
	},
	"molecular biology": {
		"biologia molecular", "molecular biologist",
	},
	"estatistica": {
		"statistics", "estatistico", "statistician", "bioestatistica", "biostatistics",
	},
	"statistics": {
		"estatistica", "statistician", "biostatistics",
	},
})

// alternations are deterministic morpheme swaps between Portuguese and English
// spellings of domain words.
var alternations = [][2]string{
	{"informatica", "informatics"},
	{"informatics", "informatica"},
	{"genomica", "genomics"},
	{"genomics", "genomica"},
	{"estatistica", "statistics"},
	{"biologia", "biology"},
	{"biology", "biologia"},
}

func buildTable(raw map[string][]string) map[string][]string {
	out := make(map[string][]string, len(raw))
	for key, phrases := range raw {
		normalized := make([]string, 0, len(phrases))
		for _, p := range phrases {
			normalized = append(normalized, textnorm.Normalize(p))
		}
		out[textnorm.Normalize(key)] = normalized
	}
	return out
}

// Expander returns the variant set of a term.
type Expander struct{}

// NewExpander returns an Expander over the built-in synonym table.
func NewExpander() *Expander {
	return &Expander{}
}

// Expand returns the normalized term plus every variant reached through the
// synonym table (key contained in the term or term contained in the key) and
// the morphological alternations. The result is sorted and never contains
// empty strings.
func (e *Expander) Expand(term string) []string {
	base := textnorm.Normalize(term)
	if base == "" {
		return nil
	}

	set := map[string]struct{}{base: {}}
	for key, phrases := range synonyms {
		if strings.Contains(base, key) || strings.Contains(key, base) {
			for _, p := range phrases {
				set[p] = struct{}{}
			}
		}
	}

	snapshot := make([]string, 0, len(set))
	for v := range set {
		snapshot = append(snapshot, v)
	}
	for _, v := range snapshot {
		for _, alt := range alternations {
			if strings.Contains(v, alt[0]) {
				set[strings.ReplaceAll(v, alt[0], alt[1])] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(set))
	for v := range set {
		if v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
