package usecase

import (
	"context"
	"fmt"

	"timebeing-backend/internal/project/domain"
	"timebeing-backend/internal/project/dto"
	"timebeing-backend/internal/project/repository"
	taskdomain "timebeing-backend/internal/task/domain"
	taskrepo "timebeing-backend/internal/task/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type projectUsecase struct {
	projectRepo repository.ProjectRepository
	tasks       TaskService
	log         *zap.Logger
}

func NewProjectUsecase(projectRepo repository.ProjectRepository, tasks TaskService, log *zap.Logger) ProjectUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &projectUsecase{
		projectRepo: projectRepo,
		tasks:       tasks,
		log:         log,
	}
}

func (u *projectUsecase) CreateProject(ctx context.Context, userID string, req dto.CreateProjectRequest) (*domain.Project, error) {
	project := &domain.Project{
		ID:            uuid.New().String(),
		UserID:        userID,
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		AIContextText: req.AIContextText,
		Priority:      req.Priority,
	}
	if project.Status == "" {
		project.Status = domain.StatusCreated
	}
	if project.Priority == "" {
		project.Priority = taskdomain.PriorityLow
	}
	if err := validate(project); err != nil {
		return nil, err
	}

	if err := u.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	u.log.Info("Project created", zap.String("project_id", project.ID), zap.String("user_id", userID))
	return project, nil
}

func (u *projectUsecase) GetProjectByID(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	project, err := u.projectRepo.FindByIDForUser(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}
	return project, nil
}

func (u *projectUsecase) GetUserProjects(ctx context.Context, userID string) ([]*domain.Project, error) {
	return u.projectRepo.FindByUserID(ctx, userID)
}

func (u *projectUsecase) UpdateProject(ctx context.Context, userID, projectID string, req dto.UpdateProjectRequest) (*domain.Project, error) {
	project, err := u.GetProjectByID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description.Set {
		project.Description = req.Description.Ptr()
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.AIContextText.Set {
		project.AIContextText = req.AIContextText.Ptr()
	}
	if req.Priority != nil {
		project.Priority = *req.Priority
	}
	if err := validate(project); err != nil {
		return nil, err
	}

	if err := u.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	u.log.Info("Project updated", zap.String("project_id", project.ID), zap.String("user_id", userID))
	return project, nil
}

func (u *projectUsecase) DeleteProject(ctx context.Context, userID, projectID string) error {
	if _, err := u.GetProjectByID(ctx, userID, projectID); err != nil {
		return err
	}
	// tasks first so their reminders are cancelled before the project row goes away
	if err := u.tasks.DeleteByProject(ctx, userID, projectID); err != nil {
		return fmt.Errorf("delete project tasks: %w", err)
	}
	if err := u.projectRepo.Delete(ctx, userID, projectID); err != nil {
		return err
	}
	u.log.Info("Project deleted", zap.String("project_id", projectID), zap.String("user_id", userID))
	return nil
}

func (u *projectUsecase) ListTasks(ctx context.Context, userID, projectID string) ([]*taskdomain.Task, error) {
	if _, err := u.GetProjectByID(ctx, userID, projectID); err != nil {
		return nil, err
	}
	tasks, _, err := u.tasks.GetUserTasks(ctx, userID, taskrepo.ListFilter{ProjectID: &projectID})
	return tasks, err
}

func validate(p *domain.Project) error {
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: status must be one of Criado, Andamento, Concluído", domain.ErrInvalidInput)
	}
	if !p.Priority.Valid() {
		return fmt.Errorf("%w: priority must be one of Baixa, Média, Alta", domain.ErrInvalidInput)
	}
	return nil
}
