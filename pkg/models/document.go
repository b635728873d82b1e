package models

import "strings"

// DocumentPayload is the similarity service's JSON for a single document.
// Doctype/docid are assigned by the service and are reassigned if a document
// is deleted and reloaded; the desc_id is the durable identity.
type DocumentPayload struct {
	Doctype    int    `json:"doctype"`
	Docid      int    `json:"docid"`
	Title      string `json:"title"`
	Group      string `json:"group,omitempty"`
	Text       string `json:"text,omitempty"`
	Characters int    `json:"characters,omitempty"`
	DescID     string `json:"desc_id,omitempty"`
}

// ResolveDescID returns the payload's desc_id, deriving it from the title
// when the service did not include one.
func (p DocumentPayload) ResolveDescID() string {
	if p.DescID != "" {
		return p.DescID
	}
	return ParseTitle(p.Title).DescID
}

// DocumentRow is one entry in the paginated document listing.
type DocumentRow struct {
	Doctype int    `json:"doctype"`
	Docid   int    `json:"docid"`
	Title   string `json:"title"`
}

// MatchRow is one entry in a document's match listing. Doctype/docid/title
// identify the matching document.
type MatchRow struct {
	ID            string `json:"id"`
	Doctype       int    `json:"doctype"`
	Docid         int    `json:"docid"`
	Title         string `json:"title"`
	Group         string `json:"group,omitempty"`
	Characters    int    `json:"characters,omitempty"`
	FragmentCount int    `json:"fragment_count,omitempty"`
}

// Fragment is one contiguous span of text shared by the two documents of a
// match. Begin/length/hash refer to positions in the matching document and
// are not always present.
type Fragment struct {
	Text   string `json:"text"`
	Begin  int    `json:"begin,omitempty"`
	Length int    `json:"length,omitempty"`
	Hash   uint64 `json:"hash,omitempty"`
}

// Status is the service's health/info response.
type Status struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TitleParts holds the identifiers derivable from a document title.
type TitleParts struct {
	DescID string
	Work   string
	Copy   string
	Form   string
	Page   string
}

// ParseTitle derives a desc_id and its subcomponents from a document title.
//
// Titles look like "vda.h.illbk.07.txt": the desc_id is the title minus its
// final extension-like segment. Five-segment titles also break down into
// work/copy/form/page; with fewer segments we cannot tell which part is
// missing, so the subcomponents are left empty.
func ParseTitle(title string) TitleParts {
	segments := strings.Split(title, ".")
	parts := TitleParts{
		DescID: strings.Join(segments[:len(segments)-1], "."),
	}
	if len(segments) == 5 {
		parts.Work = segments[0]
		parts.Copy = segments[1]
		parts.Form = segments[2]
		parts.Page = segments[3]
	}
	return parts
}
