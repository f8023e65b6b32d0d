// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize coerces verified model records onto the closed taxonomy
// and applies the date-cutoff filter. Every enum-like field from the model is
// an untrusted input: mapping is total (exact match, then synonym table, then
// a documented default) and unrecognized strings never pass through.
package normalize

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/meshintel/litradar/internal/verify"
	"github.com/meshintel/litradar/pkg/types"
)

// Options controls one normalization pass.
type Options struct {
	// BaseScore seeds ValidationScore, from the agent profile that found
	// the records.
	BaseScore int

	// Cutoff rejects records dated earlier than this.
	Cutoff time.Time

	// Live marks records from a non-AI source.
	Live bool
}

// nowFunc returns the current time. Tests override it to pin the trusted
// recent-year check.
var nowFunc = time.Now

// Records converts verified records into PaperRecords, dropping anything
// outside the date window. Each surviving record gets a fresh unique ID.
func Records(recs []verify.Verified, opts Options) []types.PaperRecord {
	out := make([]types.PaperRecord, 0, len(recs))
	for _, rec := range recs {
		date, ok := acceptDate(rec.Date, rec.Title+" "+rec.AbstractHighlight, opts.Cutoff)
		if !ok {
			continue
		}

		out = append(out, types.PaperRecord{
			ID:                  uuid.NewString(),
			Title:               rec.Title,
			URL:                 rec.URL,
			JournalOrConference: rec.JournalOrConference,
			Date:                date,
			Authors:             rec.Authors,
			Topic:               MapTopic(rec.Topic),
			PublicationType:     MapPublicationType(rec.PublicationType),
			StudyType:           MapStudyType(rec.StudyType),
			Methodology:         MapMethodology(rec.Methodology),
			Modality:            MapModality(rec.Modality),
			AbstractHighlight:   rec.AbstractHighlight,
			DrugAndTarget:       rec.DrugAndTarget,
			Context:             rec.Context,
			ValidationScore:     clampScore(opts.BaseScore),
			AuthorsVerified:     rec.AuthorsVerified,
			IsLive:              opts.Live,
		})
	}
	return out
}

// acceptDate parses the record date and applies the cutoff. An unparseable
// date is accepted (as a zero time) only when the surrounding text carries a
// trusted recent-year token: the current or prior year.
func acceptDate(raw, context string, cutoff time.Time) (time.Time, bool) {
	date, err := parseDate(raw)
	if err != nil {
		year := nowFunc().Year()
		if strings.Contains(context, strconv.Itoa(year)) || strings.Contains(context, strconv.Itoa(year-1)) {
			return time.Time{}, true
		}
		return time.Time{}, false
	}
	if !cutoff.IsZero() && date.Before(cutoff) {
		return time.Time{}, false
	}
	return date, true
}

// dateLayouts are tried in order against model-emitted date strings.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"2006/01/02",
	"January 2006",
	"2006",
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// canonKey folds a free-text enum guess into lookup form: lowercased, with
// every run of non-alphanumerics collapsed to a single underscore.
func canonKey(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// mapEnum is the total mapping every enum field goes through.
func mapEnum[T ~string](raw string, values []T, synonyms map[string]T, fallback T) T {
	key := canonKey(raw)
	if key == "" {
		return fallback
	}
	for _, v := range values {
		if key == string(v) {
			return v
		}
	}
	if v, ok := synonyms[key]; ok {
		return v
	}
	return fallback
}

var topicSynonyms = map[string]types.Topic{
	"nash":              types.TopicMASH,
	"masld":             types.TopicMASH,
	"nafld":             types.TopicMASH,
	"steatohepatitis":   types.TopicMASH,
	"fatty_liver":       types.TopicMASH,
	"liver_disease":     types.TopicMASH,
	"weight_loss":       types.TopicObesity,
	"overweight":        types.TopicObesity,
	"type_2_diabetes":   types.TopicT2D,
	"t2dm":              types.TopicT2D,
	"diabetes":          types.TopicT2D,
	"glycemic_control":  types.TopicT2D,
	"chronic_kidney_disease": types.TopicCKD,
	"kidney_disease":    types.TopicCKD,
	"renal":             types.TopicCKD,
	"nephropathy":       types.TopicCKD,
	"cardiovascular":    types.TopicCVD,
	"cardiovascular_disease": types.TopicCVD,
	"heart_failure":     types.TopicCVD,
	"cardiology":        types.TopicCVD,
}

// MapTopic maps a free-text topic guess onto the closed set; default other.
func MapTopic(raw string) types.Topic {
	return mapEnum(raw,
		[]types.Topic{types.TopicMASH, types.TopicObesity, types.TopicT2D, types.TopicCKD, types.TopicCVD, types.TopicOther},
		topicSynonyms, types.TopicOther)
}

var pubTypeSynonyms = map[string]types.PublicationType{
	"article":           types.PubJournalArticle,
	"research_article":  types.PubJournalArticle,
	"original_article":  types.PubJournalArticle,
	"paper":             types.PubJournalArticle,
	"trial":             types.PubClinicalTrial,
	"trial_results":     types.PubClinicalTrial,
	"review_article":    types.PubReview,
	"systematic_review": types.PubReview,
	"abstract":          types.PubConferenceAbstract,
	"conference_paper":  types.PubConferenceAbstract,
	"poster":            types.PubConferenceAbstract,
	"patent_application": types.PubPatent,
	"patent_grant":      types.PubPatent,
}

// MapPublicationType maps a venue guess; default journal_article.
func MapPublicationType(raw string) types.PublicationType {
	return mapEnum(raw,
		[]types.PublicationType{types.PubJournalArticle, types.PubClinicalTrial, types.PubPreprint, types.PubReview, types.PubConferenceAbstract, types.PubPatent},
		pubTypeSynonyms, types.PubJournalArticle)
}

var studyTypeSynonyms = map[string]types.StudyType{
	"randomized_controlled_trial": types.StudyRCT,
	"randomised_controlled_trial": types.StudyRCT,
	"randomized":                  types.StudyRCT,
	"phase_3_trial":               types.StudyRCT,
	"cohort":                      types.StudyObservational,
	"cohort_study":                types.StudyObservational,
	"case_control":                types.StudyObservational,
	"registry":                    types.StudyObservational,
	"retrospective":               types.StudyObservational,
	"meta_analysis_and_systematic_review": types.StudyMetaAnalysis,
	"pooled_analysis":             types.StudyMetaAnalysis,
	"animal_study":                types.StudyPreclinical,
	"in_vitro":                    types.StudyPreclinical,
	"in_vivo":                     types.StudyPreclinical,
	"preclinical_study":           types.StudyPreclinical,
	"case_series":                 types.StudyCaseReport,
}

// MapStudyType maps a study-design guess; default other.
func MapStudyType(raw string) types.StudyType {
	return mapEnum(raw,
		[]types.StudyType{types.StudyRCT, types.StudyObservational, types.StudyMetaAnalysis, types.StudyPreclinical, types.StudyCaseReport, types.StudyOther},
		studyTypeSynonyms, types.StudyOther)
}

var methodologySynonyms = map[string]types.Methodology{
	"clinical":       types.MethodHumanClinical,
	"clinical_trial": types.MethodHumanClinical,
	"human":          types.MethodHumanClinical,
	"in_vivo":        types.MethodLabExperimental,
	"in_vitro":       types.MethodLabExperimental,
	"animal_model":   types.MethodLabExperimental,
	"organoid":       types.MethodLabExperimental,
	"bench":          types.MethodLabExperimental,
	"in_silico":      types.MethodComputational,
	"machine_learning": types.MethodComputational,
	"modeling":       types.MethodComputational,
	"bioinformatics": types.MethodComputational,
	"epidemiology":   types.MethodEpidemiological,
	"population_based": types.MethodEpidemiological,
	"observational":  types.MethodEpidemiological,
}

// MapMethodology maps a methodology guess; default other.
func MapMethodology(raw string) types.Methodology {
	return mapEnum(raw,
		[]types.Methodology{types.MethodHumanClinical, types.MethodLabExperimental, types.MethodComputational, types.MethodEpidemiological, types.MethodOther},
		methodologySynonyms, types.MethodOther)
}

var modalitySynonyms = map[string]types.Modality{
	"small_molecule_inhibitor": types.ModalitySmallMolecule,
	"oral_small_molecule":      types.ModalitySmallMolecule,
	"glp_1":                    types.ModalityPeptide,
	"glp_1_receptor_agonist":   types.ModalityPeptide,
	"incretin":                 types.ModalityPeptide,
	"peptide_agonist":          types.ModalityPeptide,
	"monoclonal_antibody":      types.ModalityAntibody,
	"mab":                      types.ModalityAntibody,
	"biologic":                 types.ModalityAntibody,
	"aav":                      types.ModalityGeneTherapy,
	"gene_editing":             types.ModalityGeneTherapy,
	"crispr":                   types.ModalityGeneTherapy,
	"sirna":                    types.ModalityRNA,
	"antisense_oligonucleotide": types.ModalityRNA,
	"aso":                      types.ModalityRNA,
	"mrna":                     types.ModalityRNA,
}

// MapModality maps a modality guess; default other.
func MapModality(raw string) types.Modality {
	return mapEnum(raw,
		[]types.Modality{types.ModalitySmallMolecule, types.ModalityPeptide, types.ModalityAntibody, types.ModalityGeneTherapy, types.ModalityRNA, types.ModalityOther},
		modalitySynonyms, types.ModalityOther)
}
