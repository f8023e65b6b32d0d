// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litradar pipeline.
package types

import "time"

// Topic is the closed set of disease-area buckets a record may carry.
type Topic string

const (
	TopicMASH    Topic = "mash"
	TopicObesity Topic = "obesity"
	TopicT2D     Topic = "t2d"
	TopicCKD     Topic = "ckd"
	TopicCVD     Topic = "cvd"
	TopicOther   Topic = "other"
)

// PublicationType classifies the venue that published a record.
type PublicationType string

const (
	PubJournalArticle     PublicationType = "journal_article"
	PubClinicalTrial      PublicationType = "clinical_trial"
	PubPreprint           PublicationType = "preprint"
	PubReview             PublicationType = "review"
	PubConferenceAbstract PublicationType = "conference_abstract"
	PubPatent             PublicationType = "patent"
)

// StudyType classifies the study design reported by a record.
type StudyType string

const (
	StudyRCT           StudyType = "rct"
	StudyObservational StudyType = "observational"
	StudyMetaAnalysis  StudyType = "meta_analysis"
	StudyPreclinical   StudyType = "preclinical"
	StudyCaseReport    StudyType = "case_report"
	StudyOther         StudyType = "other"
)

// Methodology classifies how the work was carried out.
type Methodology string

const (
	MethodHumanClinical   Methodology = "human_clinical"
	MethodLabExperimental Methodology = "lab_experimental"
	MethodComputational   Methodology = "computational"
	MethodEpidemiological Methodology = "epidemiological"
	MethodOther           Methodology = "other"
)

// Modality classifies the therapeutic modality under study.
type Modality string

const (
	ModalitySmallMolecule Modality = "small_molecule"
	ModalityPeptide       Modality = "peptide"
	ModalityAntibody      Modality = "antibody"
	ModalityGeneTherapy   Modality = "gene_therapy"
	ModalityRNA           Modality = "rna"
	ModalityOther         Modality = "other"
)

// FeedVariant selects a feed's freshness profile and cache TTL.
type FeedVariant string

const (
	FeedLive   FeedVariant = "live"
	FeedAI     FeedVariant = "ai"
	FeedPatent FeedVariant = "patent"
)

// PaperRecord is the unit of pipeline output: one discovered publication with
// grounding-verified metadata and a closed-taxonomy classification.
type PaperRecord struct {
	// ID is an opaque unique identifier assigned at ingestion, never by the model.
	ID string `json:"id" yaml:"id"`

	// Title is the citation's title when grounding succeeded, else the model's
	// unverified guess (only in lenient verification mode).
	Title string `json:"title" yaml:"title"`

	// URL points to a verified citation URL, a DOI-canonical URL, or a
	// constructed search-engine query URL. Never a raw unverified model link.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// JournalOrConference is the publishing venue as reported by the model.
	JournalOrConference string `json:"journal_or_conference,omitempty" yaml:"journal_or_conference,omitempty"`

	// Date is the publication date.
	Date time.Time `json:"date" yaml:"date"`

	// Authors lists the authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	Topic           Topic           `json:"topic" yaml:"topic"`
	PublicationType PublicationType `json:"publication_type" yaml:"publication_type"`
	StudyType       StudyType       `json:"study_type" yaml:"study_type"`
	Methodology     Methodology     `json:"methodology" yaml:"methodology"`
	Modality        Modality        `json:"modality" yaml:"modality"`

	// AbstractHighlight is a one-or-two sentence takeaway from the abstract.
	AbstractHighlight string `json:"abstract_highlight,omitempty" yaml:"abstract_highlight,omitempty"`

	// DrugAndTarget names the intervention and its molecular target.
	DrugAndTarget string `json:"drug_and_target,omitempty" yaml:"drug_and_target,omitempty"`

	// Context is free-text framing for why the record matters.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`

	// ValidationScore is a 0-100 trust heuristic: higher when a site-restricted
	// precision agent found the record, lower for broad dragnet agents.
	ValidationScore int `json:"validation_score" yaml:"validation_score"`

	// AuthorsVerified reports whether the record matched a grounding citation.
	AuthorsVerified bool `json:"authors_verified" yaml:"authors_verified"`

	// IsLive marks records that came from a live (non-AI) source.
	IsLive bool `json:"is_live" yaml:"is_live"`

	// IsPolished marks records whose hub URL was replaced with a direct link.
	IsPolished bool `json:"is_polished" yaml:"is_polished"`
}

// Citation is one grounding source attached to a completion response. It is
// ephemeral: citations exist only for the duration of one completion call and
// are never persisted standalone.
type Citation struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
}
