// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent defines query profiles and builds the search directive each
// profile sends to the completion service.
package agent

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/meshintel/litradar/pkg/types"
)

// Filters is the user-selected scope for one discovery run.
type Filters struct {
	// Topics are the active topic filters. Empty substitutes the documented
	// default broad set; see DefaultTopics.
	Topics []types.Topic

	// AllTopics signals no filtering intent: the prompt asks the model to
	// accept topic variety instead of forcing an intersection.
	AllTopics bool

	StudyTypes    []types.StudyType
	Methodologies []types.Methodology

	// Cutoff excludes anything published before this date.
	Cutoff time.Time
}

// promptTmpl renders the full search directive: mission statement, a
// machine-checkable query, and the output schema with every legal enum value.
var promptTmpl = template.Must(template.New("prompt").Parse(`{{.Mission}}

Use web search to find papers matching this query:

{{.Query}}

Only include items published on or after {{.Cutoff}}.{{if .TopicNote}}
{{.TopicNote}}{{end}}{{if .ScopeNote}}
{{.ScopeNote}}{{end}}

Respond with a JSON array inside a fenced ` + "```json" + ` code block. Each element must have exactly these fields:
- "title": the paper title
- "url": the source URL you found it at
- "journalOrConference": the publishing venue
- "date": publication date as YYYY-MM-DD
- "authors": array of author names
- "topic": one of {{.Topics}}
- "publicationType": one of {{.PublicationTypes}}
- "studyType": one of {{.StudyTypes}}
- "methodology": one of {{.Methodologies}}
- "modality": one of {{.Modalities}}
- "abstractHighlight": one or two sentences with the key finding
- "drugAndTarget": the intervention and its molecular target, or ""
- "context": one sentence on why this matters

Do not invent papers. Every entry must come from a real search result.
`))

type promptData struct {
	Mission          string
	Query            string
	Cutoff           string
	TopicNote        string
	ScopeNote        string
	Topics           string
	PublicationTypes string
	StudyTypes       string
	Methodologies    string
	Modalities       string
}

// BuildPrompt assembles the search directive for one profile and filter set.
func BuildPrompt(p Profile, f Filters) string {
	data := promptData{
		Mission:          p.Mission,
		Query:            buildQuery(p, f),
		Cutoff:           cutoffDate(f).Format("2006-01-02"),
		Topics:           enumList(types.TopicMASH, types.TopicObesity, types.TopicT2D, types.TopicCKD, types.TopicCVD, types.TopicOther),
		PublicationTypes: enumList(types.PubJournalArticle, types.PubClinicalTrial, types.PubPreprint, types.PubReview, types.PubConferenceAbstract, types.PubPatent),
		StudyTypes:       enumList(types.StudyRCT, types.StudyObservational, types.StudyMetaAnalysis, types.StudyPreclinical, types.StudyCaseReport, types.StudyOther),
		Methodologies:    enumList(types.MethodHumanClinical, types.MethodLabExperimental, types.MethodComputational, types.MethodEpidemiological, types.MethodOther),
		Modalities:       enumList(types.ModalitySmallMolecule, types.ModalityPeptide, types.ModalityAntibody, types.ModalityGeneTherapy, types.ModalityRNA, types.ModalityOther),
	}

	if f.AllTopics {
		data.TopicNote = "Accept papers across the full range of these disease areas; do not narrow to a single topic."
	}
	if len(f.Methodologies) > 0 {
		data.ScopeNote = "Prefer work using: " + strings.Join(methodologyScope(f.Methodologies), ", ") + "."
	}

	var b strings.Builder
	if err := promptTmpl.Execute(&b, data); err != nil {
		// The template is static and the data is all strings; execution
		// cannot fail at runtime, but the template API returns an error.
		return data.Mission + "\n\n" + data.Query
	}
	return b.String()
}

// buildQuery produces the machine-checkable search query: topic synonym
// disjunction, site restriction, and keyword anchors.
func buildQuery(p Profile, f Filters) string {
	var parts []string

	topics := f.Topics
	if len(topics) == 0 {
		topics = DefaultTopics()
	}

	var terms []string
	for _, t := range topics {
		for _, syn := range Synonyms(t) {
			terms = append(terms, quoteTerm(syn))
		}
	}
	parts = append(parts, "("+strings.Join(terms, " OR ")+")")

	if len(p.Domains) > 0 {
		sites := make([]string, len(p.Domains))
		for i, d := range p.Domains {
			sites[i] = "site:" + d
		}
		parts = append(parts, "("+strings.Join(sites, " OR ")+")")
	}

	for _, kw := range p.IncludeAnchors {
		parts = append(parts, quoteTerm(kw))
	}
	for _, kw := range p.ExcludeAnchors {
		parts = append(parts, "-"+quoteTerm(kw))
	}

	parts = append(parts, fmt.Sprintf("after:%s", cutoffDate(f).Format("2006-01-02")))

	return strings.Join(parts, " ")
}

// methodologyScope expands each selected methodology into descriptive terms.
func methodologyScope(methods []types.Methodology) []string {
	var terms []string
	for _, m := range methods {
		terms = append(terms, MethodologyTerms(m)...)
	}
	return terms
}

// cutoffDate defaults the cutoff to now-30d when the caller left it zero.
func cutoffDate(f Filters) time.Time {
	if f.Cutoff.IsZero() {
		return time.Now().AddDate(0, 0, -30)
	}
	return f.Cutoff
}

func quoteTerm(s string) string {
	if strings.ContainsRune(s, ' ') {
		return `"` + s + `"`
	}
	return s
}

func enumList[T ~string](values ...T) string {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = `"` + string(v) + `"`
	}
	return strings.Join(strs, ", ")
}
