package model

// Modality is the content kind of a corpus item.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityTable Modality = "table"
	ModalityImage Modality = "image"
)

// ContentItem is the closed set of full-fidelity corpus content.
// Consumers switch on the concrete type; there is no fourth variant.
type ContentItem interface {
	Modality() Modality
}

type TextItem struct {
	Content string
}

func (TextItem) Modality() Modality { return ModalityText }

type TableItem struct {
	Content string
}

func (TableItem) Modality() Modality { return ModalityTable }

type ImageItem struct {
	Data    string // base64 payload, no data-URI prefix
	Caption string
}

func (ImageItem) Modality() Modality { return ModalityImage }
