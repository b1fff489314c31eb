package app

import (
	"context"
	"strings"

	"skillbridge/internal/common"
	"skillbridge/internal/domain/application"
	"skillbridge/internal/domain/task"
	"skillbridge/internal/livequery"
)

type ApplicationService struct {
	repo     application.Repository
	tasks    task.Repository
	profiles *ProfileService
	notifier livequery.Notifier
}

func NewApplicationService(repo application.Repository, tasks task.Repository, profiles *ProfileService, notifier livequery.Notifier) *ApplicationService {
	return &ApplicationService{repo: repo, tasks: tasks, profiles: profiles, notifier: notifier}
}

// Apply creates at most one application per (task, applicant). The service
// check catches the common double-submit; the repository's unique index
// catches the concurrent race.
func (s *ApplicationService) Apply(ctx context.Context, taskID, applicantID common.UUID) (*application.Application, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.PostedBy == applicantID {
		return nil, common.NewError(common.CodeValidation, "cannot apply to your own task", nil)
	}
	if _, err := s.repo.FindByTaskAndApplicant(ctx, taskID, applicantID); err == nil {
		return nil, common.NewError(common.CodeConflict, "already applied", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	applicantName := "user"
	if p, err := s.profiles.Get(ctx, applicantID); err == nil {
		applicantName = p.DisplayName
	}

	created, err := s.repo.Create(ctx, application.Application{
		TaskID:        taskID,
		ApplicantID:   applicantID,
		ApplicantName: applicantName,
		TaskTitle:     t.Title,
		Status:        application.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, livequery.TopicApplications)
	return created, nil
}

// SetStatus transitions pending to a terminal state. Repeating the same
// terminal status is a no-op; any other transition out of a terminal state is
// rejected, so a decided application can never be silently rewritten.
func (s *ApplicationService) SetStatus(ctx context.Context, applicationID common.UUID, status application.Status, actorID common.UUID) (*application.Application, error) {
	next := application.Status(strings.ToLower(strings.TrimSpace(string(status))))
	if next != application.StatusAccepted && next != application.StatusRejected {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be accepted or rejected"})
	}

	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	t, err := s.tasks.GetByID(ctx, app.TaskID)
	if err != nil {
		return nil, err
	}
	if t.PostedBy != actorID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another recruiter's task", nil)
	}
	if app.Status == next {
		return app, nil
	}
	if app.Status.Terminal() {
		return nil, common.NewError(common.CodeInvalidTransition, "application status is final", nil)
	}

	updated, err := s.repo.UpdateStatus(ctx, applicationID, next)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, livequery.TopicApplications)
	return updated, nil
}

func (s *ApplicationService) ListForStudent(ctx context.Context, applicantID common.UUID) ([]application.Application, error) {
	items, err := s.repo.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []application.Application{}
	}
	return items, nil
}

func (s *ApplicationService) ListForRecruiter(ctx context.Context, posterID common.UUID) ([]application.Application, error) {
	items, err := s.repo.ListByTaskOwner(ctx, posterID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []application.Application{}
	}
	return items, nil
}

func (s *ApplicationService) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	return s.repo.GetByID(ctx, id)
}
