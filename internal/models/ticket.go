package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TicketTitleMax       = 100
	TicketDescriptionMax = 300

	// QueuePageSize is the fixed page size for queue presentation.
	QueuePageSize = 10
)

type TicketItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTicketItem validates and trims the ticket fields.
func NewTicketItem(title, description, createdBy string) (TicketItem, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return TicketItem{}, ErrTitleRequired
	}
	if len([]rune(title)) > TicketTitleMax {
		return TicketItem{}, ErrTitleTooLong
	}
	if len([]rune(description)) > TicketDescriptionMax {
		return TicketItem{}, ErrDescriptionTooLong
	}
	return TicketItem{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}, nil
}

func (r *Room) AddTicket(t TicketItem) {
	r.TicketQueue = append(r.TicketQueue, t)
}

func (r *Room) RemoveTicket(ticketID string) error {
	for i, t := range r.TicketQueue {
		if t.ID == ticketID {
			r.TicketQueue = append(r.TicketQueue[:i], r.TicketQueue[i+1:]...)
			return nil
		}
	}
	return ErrTicketNotFound
}

// SelectTicket is the compound transition that couples ticket
// selection to the round lifecycle: current ticket, votes and reveal
// flag change together, never independently.
func (r *Room) SelectTicket(ticketID string) error {
	for _, t := range r.TicketQueue {
		if t.ID == ticketID {
			r.CurrentTicket = t.Title
			r.ResetRound()
			return nil
		}
	}
	return ErrTicketNotFound
}

// QueueQuery describes the client's current presentation of the queue.
type QueueQuery struct {
	Filter string
	Sort   SortOrder
	Page   int
}

// QueuePage is one page of the filtered and sorted queue.
type QueuePage struct {
	Items      []TicketItem `json:"items"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	TotalItems int          `json:"total_items"`
}

// isFullView reports whether the query shows the stored array as-is:
// no filter, insertion order, everything on one page. Reorder is only
// meaningful against this view.
func (r *Room) isFullView(q QueueQuery) bool {
	if strings.TrimSpace(q.Filter) != "" {
		return false
	}
	if q.Sort != SortOldest {
		return false
	}
	return len(r.TicketQueue) <= QueuePageSize
}

// ReorderTickets moves the ticket at src to dst. The move is rejected
// unless the caller's view matches the stored order, otherwise the
// indices would be ambiguous.
func (r *Room) ReorderTickets(src, dst int, view QueueQuery) error {
	if !r.isFullView(view) {
		return ErrReorderFiltered
	}
	n := len(r.TicketQueue)
	if src < 0 || src >= n || dst < 0 || dst >= n {
		return ErrReorderOutOfRange
	}
	if src == dst {
		return nil
	}
	t := r.TicketQueue[src]
	queue := append(r.TicketQueue[:src], r.TicketQueue[src+1:]...)
	queue = append(queue, TicketItem{})
	copy(queue[dst+1:], queue[dst:])
	queue[dst] = t
	r.TicketQueue = queue
	return nil
}

// QueueView computes one presentation page: case-insensitive substring
// filter over title and description, then sort, then fixed-size pages.
func (r *Room) QueueView(q QueueQuery) QueuePage {
	filtered := make([]TicketItem, 0, len(r.TicketQueue))
	needle := strings.ToLower(strings.TrimSpace(q.Filter))
	for _, t := range r.TicketQueue {
		if needle == "" ||
			strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			filtered = append(filtered, t)
		}
	}

	switch q.Sort {
	case SortTitle:
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Title) < strings.ToLower(filtered[j].Title)
		})
	case SortOldest:
		// stored order is insertion order
	default: // newest first is the display default
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	total := len(filtered)
	totalPages := (total + QueuePageSize - 1) / QueuePageSize
	if totalPages == 0 {
		totalPages = 1
	}
	page := q.Page
	if page < 1 || page > totalPages {
		page = 1
	}
	start := (page - 1) * QueuePageSize
	end := start + QueuePageSize
	if end > total {
		end = total
	}
	items := make([]TicketItem, end-start)
	copy(items, filtered[start:end])

	return QueuePage{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		TotalItems: total,
	}
}
