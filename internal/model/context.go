package model

// TextSnippet is a display-ready text fragment.
type TextSnippet struct {
	Text       string `json:"text"`
	PageNumber string `json:"page_number"`
}

// ImageHit is a display-ready image with its highlighted caption.
type ImageHit struct {
	Data    string `json:"data"`
	Summary string `json:"summary"`
}

// RetrievalContext is the vector-path result of a query, most relevant first.
type RetrievalContext struct {
	Texts  []string
	Images []ImageItem
}

// RetrievalResult carries the vector-path context plus keyword fallbacks.
// FallbackTexts is populated only when Context.Texts is empty, and
// FallbackImages only when Context.Images is empty; the two substitutions
// are independent of each other.
type RetrievalResult struct {
	Context        RetrievalContext
	FallbackTexts  []TextSnippet
	FallbackImages []ImageHit
}

// QAResult is the full response payload for one answered question.
type QAResult struct {
	Answer        string        `json:"answer"`
	AnswerHTML    string        `json:"answer_html"`
	References    []string      `json:"references"`
	ContextTexts  []TextSnippet `json:"context_texts"`
	ContextImages []ImageHit    `json:"context_images"`
	Rejected      bool          `json:"rejected,omitempty"`
}
