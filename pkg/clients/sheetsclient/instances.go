package sheetsclient

import (
	"context"
	"fmt"

	"github.com/jakechorley/group-allocation/pkg/core/model"
	"github.com/jakechorley/group-allocation/pkg/instance"
)

// ReadInstance reads a preference matrix from a tab: one row per person,
// one column per group, starting at A1. Blank trailing cells are ignored.
func (c *Client) ReadInstance(ctx context.Context, spreadsheetID, tab string) (*model.ProblemInstance, error) {
	values, err := c.GetValues(ctx, spreadsheetID, A1(tab, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to read instance tab %q: %w", tab, err)
	}

	return instance.FromRows(fmt.Sprintf("sheet %s tab %q", spreadsheetID, tab), CellsToStrings(values))
}

// CellsToStrings converts API cell values to their text form
func CellsToStrings(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			if cell == nil {
				continue
			}
			rows[i][j] = fmt.Sprint(cell)
		}
	}
	return rows
}
