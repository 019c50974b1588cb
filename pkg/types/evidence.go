// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EvidenceSource is a citable exhibit: a document with an identifier, an
// exhibit label, and the pages a paragraph may cite.
type EvidenceSource struct {
	// ID uniquely identifies the source within a registry (e.g. "medical-records").
	ID string `json:"id" yaml:"id"`

	// Description says what the exhibit is.
	Description string `json:"description" yaml:"description"`

	// Exhibit is the exhibit label used in citations (e.g. "A", "12").
	Exhibit string `json:"exhibit" yaml:"exhibit"`

	// Pages lists the cited page numbers. Empty for uncitable sources.
	Pages []int `json:"pages,omitempty" yaml:"pages,omitempty"`

	// FilePath optionally points at the exhibit on disk.
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate registered sources.
func (e EvidenceSource) Clone() EvidenceSource {
	if e.Pages != nil {
		e.Pages = append([]int(nil), e.Pages...)
	}
	return e
}

// EvidenceFile is the on-disk layout of evidence.yaml.
type EvidenceFile struct {
	Sources []EvidenceSource `json:"sources" yaml:"sources"`
}

// DraftedParagraph pairs paragraph text with the evidence it cites, in
// citation order. The citation suffix is derived when drafting, never stored.
type DraftedParagraph struct {
	Text        string   `json:"text" yaml:"text"`
	EvidenceIDs []string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// DraftFile is the on-disk layout of a paragraph list for the draft command.
type DraftFile struct {
	Paragraphs []DraftedParagraph `json:"paragraphs" yaml:"paragraphs"`
}
