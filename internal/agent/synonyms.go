// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import "github.com/meshintel/litradar/pkg/types"

// topicSynonyms is the static expansion table for search queries. A topic with
// an entry here always expands to the full clinical synonym set; expansion is a
// lookup, never an inference.
var topicSynonyms = map[types.Topic][]string{
	types.TopicMASH: {
		"MASH", "NASH", "MASLD",
		"steatohepatitis", "metabolic dysfunction-associated steatotic liver disease",
	},
	types.TopicObesity: {
		"obesity", "weight loss", "GLP-1", "incretin",
	},
	types.TopicT2D: {
		"type 2 diabetes", "T2D", "glycemic control", "insulin resistance",
	},
	types.TopicCKD: {
		"chronic kidney disease", "CKD", "diabetic nephropathy", "renal outcomes",
	},
	types.TopicCVD: {
		"cardiovascular disease", "CVD", "MACE", "heart failure", "atherosclerosis",
	},
}

// Synonyms returns the search expansion for a topic, or the topic itself when
// no table entry exists.
func Synonyms(topic types.Topic) []string {
	if syns, ok := topicSynonyms[topic]; ok {
		return syns
	}
	return []string{string(topic)}
}

// methodologySynonyms expands under-specified methodology labels into the
// descriptive terms a search query actually needs.
var methodologySynonyms = map[types.Methodology][]string{
	types.MethodLabExperimental: {
		"in vivo", "in vitro", "animal model", "organoid", "preclinical",
	},
	types.MethodHumanClinical: {
		"clinical trial", "randomized", "phase 2", "phase 3",
	},
	types.MethodEpidemiological: {
		"cohort study", "registry", "population-based",
	},
}

// MethodologyTerms returns the search terms for a methodology.
func MethodologyTerms(m types.Methodology) []string {
	if syns, ok := methodologySynonyms[m]; ok {
		return syns
	}
	return []string{string(m)}
}

// DefaultTopics is the documented broad set substituted when the caller
// selects no topics, so an empty filter never produces an unbounded query.
func DefaultTopics() []types.Topic {
	return []types.Topic{
		types.TopicMASH,
		types.TopicObesity,
		types.TopicT2D,
		types.TopicCKD,
		types.TopicCVD,
	}
}
