package store

import (
	"context"
	"fmt"
	"strings"
)

// SummaryForAgent builds a compact text summary of the current state for
// injection into the agent's prompt context.
func (s *Store) SummaryForAgent(ctx context.Context) (string, error) {
	apps, err := s.ListApplications(ctx)
	if err != nil {
		return "", err
	}
	taskStats, err := s.TaskStats(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Applications: %d\n", len(apps))
	for _, a := range apps {
		fmt.Fprintf(&b, "- %s %s (%s), status: %s", a.SchoolName, a.ProgramName, a.DegreeType, a.Status)
		if a.Deadline != "" {
			fmt.Fprintf(&b, ", deadline: %s", a.Deadline)
		}
		if a.Decision != "" && a.Decision != "pending" {
			fmt.Fprintf(&b, ", decision: %s", a.Decision)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Tasks: %d total, %d pending, %d urgent (due within 3 days)\n",
		taskStats.Total, taskStats.ByStatus["pending"], taskStats.Urgent)
	return b.String(), nil
}
