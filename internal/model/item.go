package model

// Item is a single checklist entry as the remote store returns it.
// The ID is assigned by the server and never changes.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Stats counts done and pending items.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.Done {
			done++
		} else {
			pending++
		}
	}
	return
}
