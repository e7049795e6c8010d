package lang

import (
	"path"
	"sort"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/codeloom/pkg/textutil"
)

// OtherLanguage buckets files enry cannot identify.
const OtherLanguage = "Other"

// Stat aggregates per-language ingest statistics.
type Stat struct {
	Language string
	Files    int
	Bytes    int64
	Lines    int
}

// Detect identifies a file's language from its name and content using
// enry. This powers the ingest statistics report only; the classifier
// used by the analysis pipeline stays extension-table driven.
func Detect(name string, content []byte) string {
	if textutil.IsBinary(content) {
		return OtherLanguage
	}

	lang := enry.GetLanguage(path.Base(name), content)
	if lang == "" {
		return OtherLanguage
	}

	return lang
}

// Accumulator builds per-language statistics across ingested files.
type Accumulator struct {
	byLanguage map[string]*Stat
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{byLanguage: map[string]*Stat{}}
}

// Add records one file.
func (a *Accumulator) Add(name string, size int64, content []byte) {
	lang := Detect(name, content)

	stat, ok := a.byLanguage[lang]
	if !ok {
		stat = &Stat{Language: lang}
		a.byLanguage[lang] = stat
	}

	stat.Files++
	stat.Bytes += size
	stat.Lines += textutil.CountLines(content)
}

// Stats returns the accumulated statistics sorted by descending file
// count, ties broken by language name.
func (a *Accumulator) Stats() []Stat {
	out := make([]Stat, 0, len(a.byLanguage))
	for _, stat := range a.byLanguage {
		out = append(out, *stat)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Files != out[j].Files {
			return out[i].Files > out[j].Files
		}

		return out[i].Language < out[j].Language
	})

	return out
}
