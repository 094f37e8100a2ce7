package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-market.com/task-market/internal/constants"
	apperrors "task-market.com/task-market/internal/errors"
	model "task-market.com/task-market/internal/models"
)

type TaskRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// TaskFilter narrows List. Zero values mean "any".
type TaskFilter struct {
	Status       constants.TaskStatus
	Category     string
	OwnerID      string
	FreelancerID string
	Limit        int
	Offset       int
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db, now: time.Now}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	now := r.now().UTC()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = constants.StatusOpen
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = task.CreatedAt
	task.Version = 1

	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate reads the task and, on databases with row locks, holds
// the row until the surrounding transaction ends. SQLite serializes writers
// on its own and gets a plain read.
func (r *TaskRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Task, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.find(query, id)
}

func (r *TaskRepository) find(query *gorm.DB, id string) (*model.Task, error) {
	var task model.Task
	err := query.First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.FreelancerID != "" {
		query = query.Where("freelancer_id = ?", filter.FreelancerID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	tasks := []model.Task{}
	err := query.Order("created_at desc").Order("id").Find(&tasks).Error
	return tasks, err
}

// Update writes the editable content of task. The row must still carry the
// version task was read at; otherwise ErrOptimisticLock is returned and
// nothing changes.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	now := r.now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(map[string]interface{}{
			"title":           task.Title,
			"description":     task.Description,
			"budget":          task.Budget,
			"deadline":        task.Deadline,
			"category":        task.Category,
			"required_skills": jsonColumn(task.RequiredSkills),
			"attachments":     jsonColumn(task.Attachments),
			"updated_at":      now,
			"version":         gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, task.ID); err != nil {
			return err
		}
		return apperrors.ErrOptimisticLock
	}

	task.Version++
	task.UpdatedAt = now
	return nil
}

// SetStatus moves task to next. The edge must exist in the lifecycle table
// and the row must still be in the status task was read with, so a
// concurrent transition surfaces as ErrInvalidTransition instead of being
// overwritten. FreelancerID is written alongside the status.
func (r *TaskRepository) SetStatus(ctx context.Context, task *model.Task, next constants.TaskStatus) error {
	if !task.Status.CanTransitionTo(next) {
		return apperrors.ErrInvalidTransition
	}

	now := r.now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND status = ?", task.ID, task.Status).
		Updates(map[string]interface{}{
			"status":        next,
			"freelancer_id": task.FreelancerID,
			"updated_at":    now,
			"version":       gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, task.ID); err != nil {
			return err
		}
		return apperrors.ErrInvalidTransition
	}

	task.Status = next
	task.Version++
	task.UpdatedAt = now
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// CountByStatus returns how many tasks ownerID has in each status. Statuses
// without tasks are present with a zero count.
func (r *TaskRepository) CountByStatus(ctx context.Context, ownerID string) (map[constants.TaskStatus]int64, error) {
	var rows []struct {
		Status constants.TaskStatus
		Count  int64
	}

	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("status, count(*) as count").
		Where("owner_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[constants.TaskStatus]int64, len(constants.TaskStatuses))
	for _, s := range constants.TaskStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
