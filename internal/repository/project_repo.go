package repository

import (
	"context"

	"gorm.io/gorm"

	"shift-hub/backend/internal/model"
)

// ProjectRepository 项目与成员数据访问接口
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	AddMember(ctx context.Context, member *model.ProjectMember) error
	ListMembershipsByUser(ctx context.Context, userID string) ([]model.ProjectMember, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Project, error)
}

type projectRepo struct {
	db *gorm.DB
}

// NewProjectRepo 创建 ProjectRepository 实例
func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepo) AddMember(ctx context.Context, member *model.ProjectMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// ListMembershipsByUser 返回用户的全部成员关系（不按状态过滤）
func (r *projectRepo) ListMembershipsByUser(ctx context.Context, userID string) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *projectRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("project_id IN ?", ids).
		Find(&projects).Error
	return projects, err
}
