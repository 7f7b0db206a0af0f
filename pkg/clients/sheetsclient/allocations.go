package sheetsclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PublishedAllocation is the best assignment of a run, laid out for a sheet
type PublishedAllocation struct {
	RunID        string
	InstanceName string
	StartedAt    time.Time
	Generation   int
	Fitness      int
	MaxFitness   int
	// Members[g] lists the persons in group g
	Members [][]int
}

// TabTitle names the tab an allocation is written to, e.g.
// "Run 2026-05-01 1000 3f2a9c1e"
func (a *PublishedAllocation) TabTitle() string {
	id := a.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("Run %s %s", a.StartedAt.UTC().Format("2006-01-02 1504"), id)
}

// PublishAllocation writes the allocation to its own tab, creating the tab
// if needed and overwriting it otherwise. It returns the tab title.
func (c *Client) PublishAllocation(ctx context.Context, spreadsheetID string, allocation *PublishedAllocation) (string, error) {
	title := allocation.TabTitle()

	exists, err := c.SheetExists(ctx, spreadsheetID, title)
	if err != nil {
		return "", err
	}
	if !exists {
		if _, err := c.CreateSheet(ctx, spreadsheetID, title); err != nil {
			return "", fmt.Errorf("failed to create tab: %w", err)
		}
	}

	if err := c.UpdateValues(ctx, spreadsheetID, A1(title, "A1"), AllocationRows(allocation)); err != nil {
		return "", fmt.Errorf("failed to write allocation: %w", err)
	}

	return title, nil
}

// AllocationRows lays out a summary block, a blank row, then one row per
// group: its number, size and comma separated members
func AllocationRows(a *PublishedAllocation) [][]interface{} {
	ratio := 1.0
	if a.MaxFitness != 0 {
		ratio = float64(a.Fitness) / float64(a.MaxFitness)
	}

	rows := [][]interface{}{
		{"Run", a.RunID},
		{"Instance", a.InstanceName},
		{"Started", a.StartedAt.UTC().Format(time.RFC3339)},
		{"Generation", a.Generation},
		{"Fitness", a.Fitness, a.MaxFitness, fmt.Sprintf("%.2f%%", ratio*100)},
		{},
		{"Group", "Size", "Members"},
	}

	for g, members := range a.Members {
		labels := make([]string, len(members))
		for i, p := range members {
			labels[i] = strconv.Itoa(p)
		}
		rows = append(rows, []interface{}{g, len(members), strings.Join(labels, ", ")})
	}

	return rows
}
