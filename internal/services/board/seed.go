package board

import (
	"context"
	"fmt"
	"time"

	"github.com/thenoetrevino/tabla/internal/grid/value"
	"github.com/thenoetrevino/tabla/internal/models"
)

// SeedRequest configures the demo board
type SeedRequest struct {
	Name  string
	Items int       // Optional: 0 means 30
	Today time.Time // Optional: anchors due dates; zero means time.Now()
}

var (
	seedGroups   = []string{"This week", "Next week", "Later"}
	seedStatuses = []string{"Working on it", "Stuck", "Done", ""}
	seedOwners   = []string{"Ana", "Bo", "Cy", "Dee", ""}
	seedTags     = [][]any{{"backend"}, {"ui", "design"}, nil, {"ops"}}
	seedVerbs    = []string{"Draft", "Review", "Ship", "Fix", "Plan", "Test"}
	seedNouns    = []string{"onboarding", "billing page", "search", "release notes", "API limits", "export"}
)

var seedColumns = []AddColumnRequest{
	{ID: "status", Name: "Status", Type: models.ColumnStatus, Width: 140,
		Options: []string{"Working on it", "Stuck", "Done"}},
	{ID: "owner", Name: "Owner", Type: models.ColumnPerson, Width: 110},
	{ID: "estimate", Name: "Estimate", Type: models.ColumnNumber, Width: 90},
	{ID: "due", Name: "Due", Type: models.ColumnDate, Width: 110},
	{ID: "done", Name: "Done", Type: models.ColumnCheckbox, Width: 80},
	{ID: "tags", Name: "Tags", Type: models.ColumnTags},
	{ID: "link", Name: "Link", Type: models.ColumnLink, Hidden: true},
	{ID: "notes", Name: "Notes", Type: models.ColumnLongText, Width: 200},
}

// Seed builds a demo board with every column type. Values are derived from
// the item index so the same request always yields the same board.
func (s *service) Seed(ctx context.Context, req SeedRequest) (*models.Board, error) {
	if req.Name == "" {
		req.Name = "Demo"
	}
	if req.Items <= 0 {
		req.Items = 30
	}
	if req.Today.IsZero() {
		req.Today = time.Now()
	}

	b, err := s.CreateBoard(ctx, CreateBoardRequest{
		Name:        req.Name,
		Description: "Demo board",
		Groups:      seedGroups,
	})
	if err != nil {
		return nil, err
	}
	for _, c := range seedColumns {
		c.BoardID = b.ID
		if _, err := s.AddColumn(ctx, c); err != nil {
			return nil, fmt.Errorf("seeding column %s: %w", c.ID, err)
		}
	}
	groups, err := s.repo.GetGroupsByBoard(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	for i := 0; i < req.Items; i++ {
		status := seedStatuses[i%len(seedStatuses)]
		data := map[string]any{
			"status":   status,
			"owner":    seedOwners[i%len(seedOwners)],
			"estimate": float64(1 + (i*7)%13),
			"due":      req.Today.AddDate(0, 0, (i*5)%40-10).Format(value.DateLayout),
			"done":     status == "Done",
			"tags":     seedTags[i%len(seedTags)],
		}
		if i%4 == 0 {
			data["link"] = fmt.Sprintf("https://example.com/issues/%d", 100+i)
		}
		if i%6 == 0 {
			data["notes"] = "## Context\n\nSeeded item. Press **Shift+Enter** to open details."
		}
		if _, err := s.AddItem(ctx, AddItemRequest{
			BoardID: b.ID,
			GroupID: groups[i%len(groups)].ID,
			Name:    fmt.Sprintf("%s %s", seedVerbs[i%len(seedVerbs)], seedNouns[(i/len(seedVerbs))%len(seedNouns)]),
			Data:    data,
		}); err != nil {
			return nil, fmt.Errorf("seeding item %d: %w", i, err)
		}
	}
	return b, nil
}
