package rsvp

import (
	"sort"
	"strings"

	"github.com/AlexTLDR/wedding/internal/database"
)

// DefaultCompanionMarker identifies the "+1" question.
const DefaultCompanionMarker = "+1"

// affirmativeMarkers open a companion compound answer.
var affirmativeMarkers = []string{"так", "да", "yes"}

// Skip describes a label or value that could not be matched to the catalog.
type Skip struct {
	Label  string
	Value  string
	Reason string
}

const (
	reasonUnknownQuestion = "unknown question"
	reasonUnknownChoice   = "unknown choice"
)

// Resolution is the outcome of reconciling a payload against the catalog.
type Resolution struct {
	Replacements []database.AnswerReplacement
	Skips        []Skip
}

// Resolver reconciles submitted answers with the active question catalog.
type Resolver struct {
	questions       []*database.Question
	questionTexts   []string
	companionMarker string
}

// NewResolver builds a resolver over questions, which must be in catalog
// order. An empty marker falls back to DefaultCompanionMarker.
func NewResolver(questions []*database.Question, companionMarker string) *Resolver {
	if companionMarker == "" {
		companionMarker = DefaultCompanionMarker
	}
	texts := make([]string, len(questions))
	for i, q := range questions {
		texts[i] = q.Text
	}
	return &Resolver{questions: questions, questionTexts: texts, companionMarker: companionMarker}
}

// Resolve maps every label of answers to a question and every value to its
// choices. Labels are processed in sorted order; when two labels land on the
// same question the later one wins.
func (r *Resolver) Resolve(answers map[string]Selection) Resolution {
	labels := make([]string, 0, len(answers))
	for label := range answers {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var res Resolution
	position := make(map[int64]int)
	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			continue
		}

		q := r.question(label)
		if q == nil {
			res.Skips = append(res.Skips, Skip{Label: label, Reason: reasonUnknownQuestion})
			continue
		}

		var (
			rep   database.AnswerReplacement
			skips []Skip
			ok    bool
		)
		if q.Kind == database.KindMulti {
			rep, skips, ok = r.resolveMulti(q, label, answers[label])
		} else {
			rep, skips, ok = r.resolveSingle(q, label, answers[label])
		}
		res.Skips = append(res.Skips, skips...)
		if !ok {
			continue
		}

		if i, seen := position[q.ID]; seen {
			res.Replacements[i] = rep
			continue
		}
		position[q.ID] = len(res.Replacements)
		res.Replacements = append(res.Replacements, rep)
	}
	return res
}

func (r *Resolver) question(label string) *database.Question {
	i, _, ok := Match(QuestionStrategies, label, r.questionTexts)
	if !ok {
		return nil
	}
	return r.questions[i]
}

// resolveMulti always replaces prior answers, even when nothing resolves.
func (r *Resolver) resolveMulti(q *database.Question, label string, sel Selection) (database.AnswerReplacement, []Skip, bool) {
	rep := database.AnswerReplacement{QuestionID: q.ID}
	var skips []Skip
	for _, v := range sel.Values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		ids, unresolved := r.resolveValue(q, v)
		rep.ChoiceIDs = appendUnique(rep.ChoiceIDs, ids...)
		for _, u := range unresolved {
			skips = append(skips, Skip{Label: label, Value: u, Reason: reasonUnknownChoice})
		}
	}
	return rep, skips, true
}

// resolveSingle leaves prior answers alone when the value is blank or does
// not resolve.
func (r *Resolver) resolveSingle(q *database.Question, label string, sel Selection) (database.AnswerReplacement, []Skip, bool) {
	var v string
	if len(sel.Values) > 0 {
		v = strings.TrimSpace(sel.Values[0])
	}
	if v == "" {
		return database.AnswerReplacement{}, nil, false
	}

	ids, unresolved := r.resolveValue(q, v)
	var skips []Skip
	for _, u := range unresolved {
		skips = append(skips, Skip{Label: label, Value: u, Reason: reasonUnknownChoice})
	}
	if len(ids) == 0 {
		return database.AnswerReplacement{}, skips, false
	}
	return database.AnswerReplacement{QuestionID: q.ID, ChoiceIDs: ids}, skips, true
}

// resolveValue returns the choices a value stands for and the parts of it
// that matched nothing. A companion compound expands to several choices.
func (r *Resolver) resolveValue(q *database.Question, value string) ([]int64, []string) {
	parts := []string{value}
	if strings.Contains(q.Text, r.companionMarker) {
		if base, companions, ok := ParseCompanions(value); ok {
			parts = append([]string{base}, companions...)
		}
	}

	var (
		ids        []int64
		unresolved []string
	)
	for _, part := range parts {
		if c, ok := matchChoice(q, part); ok {
			ids = appendUnique(ids, c.ID)
			continue
		}
		unresolved = append(unresolved, part)
	}
	return ids, unresolved
}

func matchChoice(q *database.Question, value string) (database.Choice, bool) {
	texts := make([]string, len(q.Choices))
	for i, c := range q.Choices {
		texts[i] = c.Text
	}
	i, _, ok := Match(ChoiceStrategies, value, texts)
	if !ok {
		return database.Choice{}, false
	}
	return q.Choices[i], true
}

// ParseCompanions splits "<affirmative> (<t1>, <t2>, ...)" into the
// affirmative part and the trimmed companion tokens.
func ParseCompanions(value string) (string, []string, bool) {
	head, tail, ok := strings.Cut(value, "(")
	if !ok {
		return "", nil, false
	}
	head = strings.TrimSpace(head)
	if !isAffirmative(head) {
		return "", nil, false
	}

	tail = strings.TrimSpace(tail)
	tail = strings.TrimSuffix(tail, ")")

	var companions []string
	for _, token := range strings.Split(tail, ",") {
		if token = strings.TrimSpace(token); token != "" {
			companions = append(companions, token)
		}
	}
	if len(companions) == 0 {
		return "", nil, false
	}
	return head, companions, true
}

func isAffirmative(s string) bool {
	fields := strings.Fields(Normalize(s))
	if len(fields) == 0 {
		return false
	}
	first := strings.TrimRight(fields[0], ",.!:;")
	for _, m := range affirmativeMarkers {
		if first == m {
			return true
		}
	}
	return false
}

func appendUnique(ids []int64, more ...int64) []int64 {
	for _, id := range more {
		dup := false
		for _, existing := range ids {
			if existing == id {
				dup = true
				break
			}
		}
		if !dup {
			ids = append(ids, id)
		}
	}
	return ids
}
