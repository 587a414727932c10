package service

import (
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"order-intake/internal/intake/model"
)

const (
	StageExact      = "exact"
	StageOverlap    = "overlap"
	StageSubstring  = "substring"
	StageSimilarity = "similarity"
	StageContains   = "contains"
)

// Thresholds for the edit-distance stage. A candidate is accepted only when
// its similarity is strictly above the threshold for the search length.
type Thresholds struct {
	Long       float64 // search length >= LongMinLen
	Short      float64
	LongMinLen int
}

func DefaultThresholds() Thresholds {
	return Thresholds{Long: 0.4, Short: 0.5, LongMinLen: 8}
}

func (t Thresholds) For(n int) float64 {
	if n >= t.LongMinLen {
		return t.Long
	}
	return t.Short
}

// Match is the catalog entry a search resolved to and the stage that found it.
type Match struct {
	Item  *model.CatalogItem
	Stage string
	Score float64
}

// stage is one step of the cascade. Find returns the first acceptable entry
// in catalog order.
type stage struct {
	Name string
	Find func(q query, c *Catalog) (Match, bool)
}

// StageObserver is told about every stage that runs and whether it hit.
type StageObserver interface {
	ObserveStage(stage string, hit bool)
}

// Matcher resolves free text to at most one catalog item using an ordered
// cascade of increasingly permissive stages. Later stages run only when the
// earlier ones found nothing.
type Matcher struct {
	stages     []stage
	thresholds Thresholds
	observer   StageObserver
}

func NewMatcher(th Thresholds, obs StageObserver) *Matcher {
	m := &Matcher{thresholds: th, observer: obs}
	m.stages = []stage{
		{Name: StageExact, Find: findExact},
		{Name: StageOverlap, Find: findOverlap},
		{Name: StageSubstring, Find: findSubstring},
		{Name: StageSimilarity, Find: m.findSimilar},
		{Name: StageContains, Find: findContains},
	}
	return m
}

// Match normalizes search and runs the cascade. When nothing matches and the
// search has more than two words, the last word is dropped and the cascade is
// retried, at most once per word.
func (m *Matcher) Match(search string, c *Catalog) (Match, bool) {
	if c == nil || c.Len() == 0 {
		return Match{}, false
	}
	words := strings.Fields(Normalize(search))
	for n := len(words); n > 0; n-- {
		q := newQuery(Normalize(strings.Join(words[:n], " ")))
		if q.norm != "" {
			if res, ok := m.cascade(q, c); ok {
				return res, true
			}
		}
		if n <= 2 {
			break
		}
	}
	return Match{}, false
}

func (m *Matcher) cascade(q query, c *Catalog) (Match, bool) {
	for _, st := range m.stages {
		res, ok := st.Find(q, c)
		if m.observer != nil {
			m.observer.ObserveStage(st.Name, ok)
		}
		if ok {
			res.Stage = st.Name
			return res, true
		}
	}
	return Match{}, false
}

func findExact(q query, c *Catalog) (Match, bool) {
	for _, e := range c.entries {
		if e.norm == q.norm {
			return Match{Item: e.item, Score: 1}, true
		}
	}
	return Match{}, false
}

// every search word in the item, or every item word in the search
func findOverlap(q query, c *Catalog) (Match, bool) {
	for _, e := range c.entries {
		if containsAll(q.words, e.wordSet) || containsAll(e.words, q.wordSet) {
			return Match{Item: e.item, Score: 1}, true
		}
	}
	return Match{}, false
}

func findSubstring(q query, c *Catalog) (Match, bool) {
	if q.compact == "" {
		return Match{}, false
	}
	for _, e := range c.entries {
		if e.compact == "" {
			continue
		}
		if strings.Contains(e.compact, q.compact) || strings.Contains(q.compact, e.compact) {
			return Match{Item: e.item, Score: 1}, true
		}
	}
	return Match{}, false
}

func (m *Matcher) findSimilar(q query, c *Catalog) (Match, bool) {
	qLen := utf8.RuneCountInString(q.compact)
	if qLen == 0 {
		return Match{}, false
	}
	best, bestAt := -1.0, -1
	for i, e := range c.entries {
		if e.compact == "" {
			continue
		}
		// strictly greater: ties keep the earlier item
		if s := similarity(q.compact, e.compact); s > best {
			best, bestAt = s, i
		}
	}
	if bestAt < 0 || best <= m.thresholds.For(qLen) {
		return Match{}, false
	}
	return Match{Item: c.entries[bestAt].item, Score: best}, true
}

func findContains(q query, c *Catalog) (Match, bool) {
	if utf8.RuneCountInString(q.norm) <= 3 {
		return Match{}, false
	}
	for _, e := range c.entries {
		if strings.Contains(e.norm, q.norm) {
			return Match{Item: e.item, Score: 1}, true
		}
	}
	return Match{}, false
}

// similarity is 1 - levenshtein/maxLen, in [0..1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	m := max(la, lb)
	if m == 0 {
		return 1
	}
	return 1 - float64(matchr.Levenshtein(a, b))/float64(m)
}
