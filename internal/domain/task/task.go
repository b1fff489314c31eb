package task

import (
	"time"

	"skillbridge/internal/common"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

type Task struct {
	ID              common.UUID `json:"id"`
	Title           string      `json:"taskTitle"`
	Description     string      `json:"description"`
	Skills          []string    `json:"selectedSkills"`
	Difficulty      Difficulty  `json:"difficulty"`
	Deadline        time.Time   `json:"deadline"`
	ExpectedOutcome string      `json:"expectedOutcome"`
	PostedBy        common.UUID `json:"postedByUserId"`
	CreatedAt       time.Time   `json:"timestamp"`
}

// Filter narrows the live task list the way students browse it: any
// overlapping skill matches, difficulty is an exact match.
type Filter struct {
	Skills     []string
	Difficulty Difficulty
}
