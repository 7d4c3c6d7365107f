package domain

import "fmt"

// PageChunk is the text of one analyzed page.
// PageNumber is 1-based and follows document order.
type PageChunk struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// NewPageChunk creates a page chunk
func NewPageChunk(pageNumber int, text string) PageChunk {
	return PageChunk{PageNumber: pageNumber, Text: text}
}

func (c PageChunk) String() string {
	return fmt.Sprintf("Page %d: %s", c.PageNumber, c.Text)
}
