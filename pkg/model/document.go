package model

// Document is a single knowledge base file loaded into memory.
// Name is the file name without its extension and is unique within a corpus.
type Document struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Section is a heading-delimited excerpt of a Document, the atomic unit of
// context selection. Title carries the source name and heading path,
// e.g. "faq: ## Baptism".
type Section struct {
	Source string `json:"source"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

// Chunk renders the section the way it is presented to the model.
func (s Section) Chunk() string {
	return "### " + s.Title + "\n" + s.Text
}

// ScoredSection pairs a Section with its relevance score during selection.
type ScoredSection struct {
	Section Section
	Score   float64
}
