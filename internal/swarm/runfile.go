// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package swarm

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/meshintel/litradar/internal/agent"
	"github.com/meshintel/litradar/pkg/types"
)

// RunFile is the on-disk representation of one discovery run. A run can be
// saved and re-rendered later without touching the completion service.
type RunFile struct {
	Filters FilterParams        `yaml:"filters"`
	Variant types.FeedVariant   `yaml:"variant"`
	Records []types.PaperRecord `yaml:"records"`
	Summary RunSummary          `yaml:"summary"`
}

// FilterParams stores the filter set in a serializable form.
type FilterParams struct {
	Topics        []types.Topic       `yaml:"topics,omitempty"`
	AllTopics     bool                `yaml:"all_topics,omitempty"`
	StudyTypes    []types.StudyType   `yaml:"study_types,omitempty"`
	Methodologies []types.Methodology `yaml:"methodologies,omitempty"`
	Cutoff        string              `yaml:"cutoff,omitempty"`
}

// RunSummary stores result statistics and a timestamp.
type RunSummary struct {
	Total       int       `yaml:"total"`
	DupsRemoved int       `yaml:"dups_removed"`
	AgentErrors []string  `yaml:"agent_errors,omitempty"`
	Timestamp   time.Time `yaml:"timestamp"`
}

const dateFmt = "2006-01-02"

// WriteRunFile saves filters and merged results to a YAML file.
func WriteRunFile(path string, filters agent.Filters, variant types.FeedVariant, out Output) error {
	rf := RunFile{
		Filters: FilterParams{
			Topics:        filters.Topics,
			AllTopics:     filters.AllTopics,
			StudyTypes:    filters.StudyTypes,
			Methodologies: filters.Methodologies,
		},
		Variant: variant,
		Records: out.Records,
		Summary: RunSummary{
			Total:       len(out.Records),
			DupsRemoved: out.DupsRemoved,
			AgentErrors: out.AgentErrors,
			Timestamp:   time.Now(),
		},
	}
	if !filters.Cutoff.IsZero() {
		rf.Filters.Cutoff = filters.Cutoff.Format(dateFmt)
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunFile loads a previously saved run from disk.
func ReadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing run file: %w", err)
	}
	return &rf, nil
}

// ToFilters converts stored FilterParams back into an agent.Filters.
func (p FilterParams) ToFilters() (agent.Filters, error) {
	f := agent.Filters{
		Topics:        p.Topics,
		AllTopics:     p.AllTopics,
		StudyTypes:    p.StudyTypes,
		Methodologies: p.Methodologies,
	}
	if p.Cutoff != "" {
		t, err := time.Parse(dateFmt, p.Cutoff)
		if err != nil {
			return f, fmt.Errorf("invalid cutoff %q: %w", p.Cutoff, err)
		}
		f.Cutoff = t
	}
	return f, nil
}
