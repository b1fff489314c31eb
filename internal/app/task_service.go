package app

import (
	"context"
	"strings"
	"time"

	"skillbridge/internal/common"
	"skillbridge/internal/domain/task"
	"skillbridge/internal/livequery"
)

type TaskService struct {
	repo     task.Repository
	notifier livequery.Notifier
}

func NewTaskService(repo task.Repository, notifier livequery.Notifier) *TaskService {
	return &TaskService{repo: repo, notifier: notifier}
}

func (s *TaskService) Post(ctx context.Context, t task.Task) (*task.Task, error) {
	fields := map[string]string{}
	if strings.TrimSpace(t.Title) == "" {
		fields["taskTitle"] = "title is required"
	}
	if strings.TrimSpace(t.Description) == "" {
		fields["description"] = "description is required"
	}
	if len(t.Skills) == 0 {
		fields["selectedSkills"] = "at least one skill is required"
	}
	if err := validateDifficulty(t.Difficulty); err != nil {
		fields["difficulty"] = "difficulty must be Beginner, Intermediate, or Advanced"
	}
	if t.Deadline.IsZero() {
		fields["deadline"] = "deadline is required"
	}
	if strings.TrimSpace(t.ExpectedOutcome) == "" {
		fields["expectedOutcome"] = "expected outcome is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid task", fields)
	}
	if !t.Deadline.After(time.Now().UTC().Truncate(24 * time.Hour)) {
		return nil, common.NewValidationError("invalid task", map[string]string{"deadline": "deadline must be in the future"})
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, livequery.TopicTasks)
	return created, nil
}

func (s *TaskService) Get(ctx context.Context, id common.UUID) (*task.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// ListForStudent returns the browsable task list, narrowed by the student's
// skill and difficulty filters.
func (s *TaskService) ListForStudent(ctx context.Context, filter task.Filter, limit, offset int) ([]task.Task, error) {
	if filter.Difficulty != "" {
		if err := validateDifficulty(filter.Difficulty); err != nil {
			return nil, err
		}
	}
	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []task.Task{}
	}
	return items, nil
}

// ListForRecruiter returns only the recruiter's own postings.
func (s *TaskService) ListForRecruiter(ctx context.Context, posterID common.UUID) ([]task.Task, error) {
	items, err := s.repo.ListByPoster(ctx, posterID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []task.Task{}
	}
	return items, nil
}

func validateDifficulty(d task.Difficulty) error {
	switch d {
	case task.DifficultyBeginner, task.DifficultyIntermediate, task.DifficultyAdvanced:
		return nil
	default:
		return common.NewValidationError("invalid difficulty", map[string]string{"difficulty": "difficulty must be Beginner, Intermediate, or Advanced"})
	}
}
