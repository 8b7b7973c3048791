package stage

import (
	"context"
	"time"

	"github.com/hubtav/tavlist/dao/model"
)

// Snapshot is what the clipboard carries between a copy and a paste.
type Snapshot struct {
	Title          string      `json:"title"`
	Description    *string     `json:"description"`
	DueDate        *time.Time  `json:"dueDate"`
	Notes          *string     `json:"notes"`
	Items          []ItemInput `json:"items"`
	ResponsibleIDs []uint      `json:"responsibleIds"`
}

func (s *Service) Copy(ctx context.Context, id uint) (*Snapshot, error) {
	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	items := make([]ItemInput, len(view.Items))
	for i := range view.Items {
		items[i] = ItemInput{
			Description: view.Items[i].Description,
			ProductLine: view.Items[i].ProductLine,
		}
	}
	return &Snapshot{
		Title:          view.Title,
		Description:    view.Description,
		DueDate:        view.DueDate,
		Notes:          view.Notes,
		Items:          items,
		ResponsibleIDs: view.ResponsibleIDs(),
	}, nil
}

// Paste creates a new pending stage in projectID from a snapshot.
func (s *Service) Paste(ctx context.Context, projectID uint, snap *Snapshot) (*model.Stage, error) {
	return s.Create(ctx, CreateInput{
		ProjectID:      projectID,
		Title:          snap.Title,
		Description:    snap.Description,
		DueDate:        snap.DueDate,
		Notes:          snap.Notes,
		ResponsibleIDs: snap.ResponsibleIDs,
		Items:          snap.Items,
	})
}
