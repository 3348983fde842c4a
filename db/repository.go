package db

import (
	"context"
	"errors"
	"strings"
	"sync"

	"gorm.io/gorm"

	"nav-overlay/model"
)

var (
	ErrUserExists      = errors.New("用户名已存在")
	ErrUserNotFound    = errors.New("用户不存在")
	ErrProfileNotFound = errors.New("地图配置不存在")
)

// UserStore 用户存储
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// ProfileStore 地图配置存储
type ProfileStore interface {
	List(ctx context.Context) ([]model.MapProfile, error)
	GetByName(ctx context.Context, name string) (*model.MapProfile, error)
}

// GormUserStore 基于 gorm 的用户存储
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) Create(ctx context.Context, user *model.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return ErrUserExists
	}
	return err
}

// postgres 23505 unique_violation (未开启 TranslateError 时)
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

// GormProfileStore 基于 gorm 的地图配置存储
type GormProfileStore struct {
	db *gorm.DB
}

func NewGormProfileStore(db *gorm.DB) *GormProfileStore {
	return &GormProfileStore{db: db}
}

func (s *GormProfileStore) List(ctx context.Context) ([]model.MapProfile, error) {
	var profiles []model.MapProfile
	if err := s.db.WithContext(ctx).Order("name").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *GormProfileStore) GetByName(ctx context.Context, name string) (*model.MapProfile, error) {
	var profile model.MapProfile
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// MemoryUserStore 内存用户存储，未启用数据库时使用
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*model.User
	next  uint
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*model.User)}
}

func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *MemoryUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return ErrUserExists
	}
	s.next++
	user.ID = s.next
	u := *user
	s.users[user.Username] = &u
	return nil
}

// MemoryProfileStore 内存地图配置，未启用数据库时只有配置文件里的一张地图
type MemoryProfileStore struct {
	profiles []model.MapProfile
}

func NewMemoryProfileStore(profiles ...model.MapProfile) *MemoryProfileStore {
	return &MemoryProfileStore{profiles: profiles}
}

func (s *MemoryProfileStore) List(_ context.Context) ([]model.MapProfile, error) {
	out := make([]model.MapProfile, len(s.profiles))
	copy(out, s.profiles)
	return out, nil
}

func (s *MemoryProfileStore) GetByName(_ context.Context, name string) (*model.MapProfile, error) {
	for _, p := range s.profiles {
		if p.Name == name {
			profile := p
			return &profile, nil
		}
	}
	return nil, ErrProfileNotFound
}
