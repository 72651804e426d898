package domain

// PageRequest selects a zero-based page of the given size.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is an offset-selected slice of transactions plus total-count metadata.
type Page struct {
	Content          []Transaction `json:"content"`
	TotalElements    int64         `json:"totalElements"`
	TotalPages       int           `json:"totalPages"`
	Number           int           `json:"number"`
	Size             int           `json:"size"`
	NumberOfElements int           `json:"numberOfElements"`
	First            bool          `json:"first"`
	Last             bool          `json:"last"`
	Empty            bool          `json:"empty"`
}

// NewPage builds the envelope for content read at req out of total rows.
func NewPage(content []Transaction, req PageRequest, total int64) Page {
	if content == nil {
		content = []Transaction{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return Page{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           req.Page,
		Size:             req.Size,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Last:             req.Page+1 >= totalPages,
		Empty:            len(content) == 0,
	}
}
