package store

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Application status values.
var ApplicationStatuses = []string{"researching", "in_progress", "applied", "interview", "decision"}

// Application decision values.
var ApplicationDecisions = []string{"pending", "accepted", "rejected", "waitlisted"}

// Task enumerations.
var (
	TaskPriorities = []string{"high", "medium", "low"}
	TaskStatuses   = []string{"pending", "in_progress", "completed"}
	TaskCategories = []string{"essay", "lor", "test_scores", "forms", "interview", "other"}
)

// Degree types accepted for applications.
var DegreeTypes = []string{"MS", "PhD", "MBA", "MEng", "MA", "Other"}

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool { return contains(ApplicationStatuses, s) }

// ValidApplicationDecision reports whether s is a known decision value.
func ValidApplicationDecision(s string) bool { return contains(ApplicationDecisions, s) }

// ValidTaskPriority reports whether s is a known task priority.
func ValidTaskPriority(s string) bool { return contains(TaskPriorities, s) }

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool { return contains(TaskStatuses, s) }

// ValidTaskCategory reports whether s is a known task category.
func ValidTaskCategory(s string) bool { return contains(TaskCategories, s) }

// ValidDegreeType reports whether s is a known degree type.
func ValidDegreeType(s string) bool { return contains(DegreeTypes, s) }

func contains(vals []string, s string) bool {
	for _, v := range vals {
		if v == s {
			return true
		}
	}
	return false
}
