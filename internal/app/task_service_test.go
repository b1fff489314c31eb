package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillbridge/internal/common"
	"skillbridge/internal/domain/task"
	"skillbridge/internal/livequery"
)

func validTask(postedBy common.UUID) task.Task {
	return task.Task{
		Title:           "Build a landing page",
		Description:     "Responsive landing page for a campus event",
		Skills:          []string{"HTML", "CSS"},
		Difficulty:      task.DifficultyBeginner,
		Deadline:        time.Now().UTC().Add(72 * time.Hour),
		ExpectedOutcome: "Deployed static site",
		PostedBy:        postedBy,
	}
}

func TestTaskServicePost_PublishesTasksTopic(t *testing.T) {
	repo := newFakeTaskRepo()
	notifier := &recordingNotifier{}
	service := NewTaskService(repo, notifier)

	created, err := service.Post(context.Background(), validTask(common.NewUUID()))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	topics := notifier.published()
	if len(topics) != 1 || topics[0] != livequery.TopicTasks {
		t.Fatalf("expected a single publish on %q, got %v", livequery.TopicTasks, topics)
	}
}

func TestTaskServicePost_CollectsFieldErrors(t *testing.T) {
	repo := newFakeTaskRepo()
	notifier := &recordingNotifier{}
	service := NewTaskService(repo, notifier)

	_, err := service.Post(context.Background(), task.Task{Difficulty: "Impossible"})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected coded error, got %v", err)
	}
	for _, field := range []string{"taskTitle", "description", "selectedSkills", "difficulty", "deadline", "expectedOutcome"} {
		if appErr.Fields[field] == "" {
			t.Fatalf("expected field error for %q, got %v", field, appErr.Fields)
		}
	}
	if len(notifier.published()) != 0 {
		t.Fatal("expected no publish on rejected task")
	}
}

func TestTaskServicePost_RejectsPastDeadline(t *testing.T) {
	repo := newFakeTaskRepo()
	service := NewTaskService(repo, &recordingNotifier{})

	stale := validTask(common.NewUUID())
	stale.Deadline = time.Now().UTC().Add(-48 * time.Hour)
	_, err := service.Post(context.Background(), stale)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTaskServiceListForStudent_FiltersBySkillOverlap(t *testing.T) {
	repo := newFakeTaskRepo()
	service := NewTaskService(repo, &recordingNotifier{})
	poster := common.NewUUID()

	web := validTask(poster)
	web.Skills = []string{"HTML", "CSS"}
	data := validTask(poster)
	data.Title = "Clean a dataset"
	data.Skills = []string{"Python", "Pandas"}
	data.Difficulty = task.DifficultyIntermediate
	if _, err := service.Post(context.Background(), web); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := service.Post(context.Background(), data); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	items, err := service.ListForStudent(context.Background(), task.Filter{Skills: []string{"Python"}}, 50, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(items) != 1 || items[0].Title != "Clean a dataset" {
		t.Fatalf("expected only the python task, got %v", items)
	}

	items, err = service.ListForStudent(context.Background(), task.Filter{Difficulty: task.DifficultyBeginner}, 50, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(items) != 1 || items[0].Title != "Build a landing page" {
		t.Fatalf("expected only the beginner task, got %v", items)
	}
}

func TestTaskServiceListForStudent_RejectsUnknownDifficulty(t *testing.T) {
	repo := newFakeTaskRepo()
	service := NewTaskService(repo, &recordingNotifier{})

	_, err := service.ListForStudent(context.Background(), task.Filter{Difficulty: "Expert"}, 50, 0)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTaskServiceListForStudent_EmptyIsNotNil(t *testing.T) {
	repo := newFakeTaskRepo()
	service := NewTaskService(repo, &recordingNotifier{})

	items, err := service.ListForStudent(context.Background(), task.Filter{}, 50, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if items == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestTaskServiceListForRecruiter_OwnPostingsOnly(t *testing.T) {
	repo := newFakeTaskRepo()
	service := NewTaskService(repo, &recordingNotifier{})
	mine := common.NewUUID()
	other := common.NewUUID()

	if _, err := service.Post(context.Background(), validTask(mine)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := service.Post(context.Background(), validTask(other)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	items, err := service.ListForRecruiter(context.Background(), mine)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(items) != 1 || items[0].PostedBy != mine {
		t.Fatalf("expected only the recruiter's own task, got %v", items)
	}
}
