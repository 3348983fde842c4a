package algo

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nav-overlay/model"
)

var (
	ErrShapeNotFound  = errors.New("图形不存在")
	ErrEmptyGeometry  = errors.New("图形没有坐标点")
	ErrMarkerGeometry = errors.New("标记点只能有一个坐标")
)

// Registry 已绘制图形的登记表 (只在内存中，不持久化)
// 图形生命周期: 新建 -> 编辑* -> 删除
type Registry struct {
	mu     sync.RWMutex
	grid   model.GridConfig
	speed  *Speed
	shapes map[uuid.UUID]*model.Shape
	order  []uuid.UUID // 按创建顺序
	log    *zap.Logger
	now    func() time.Time
}

// NewRegistry 创建一个空的登记表
func NewRegistry(grid model.GridConfig, speed *Speed, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	if speed == nil {
		speed = NewSpeed(DefaultSpeed)
	}
	return &Registry{
		grid:   grid,
		speed:  speed,
		shapes: make(map[uuid.UUID]*model.Shape),
		log:    log,
		now:    time.Now,
	}
}

// Grid 当前使用的网格配置
func (r *Registry) Grid() model.GridConfig {
	return r.grid
}

// Speed 共享的速度设置
func (r *Registry) Speed() *Speed {
	return r.speed
}

// CreateMarker 新建标记点，计算格子编号和显示文字
func (r *Registry) CreateMarker(p model.Point) model.Shape {
	shape := &model.Shape{ID: uuid.New(), Kind: model.ShapeMarker, Points: []model.Point{p}}
	r.apply(shape)

	r.mu.Lock()
	r.shapes[shape.ID] = shape
	r.order = append(r.order, shape.ID)
	r.mu.Unlock()

	r.log.Debug("marker created", zap.Stringer("id", shape.ID), zap.String("label", shape.Label))
	return cloneShape(shape)
}

// CreatePath 新建路径并生成标注
func (r *Registry) CreatePath(points []model.Point) (model.Shape, error) {
	if len(points) == 0 {
		return model.Shape{}, ErrEmptyGeometry
	}
	shape := &model.Shape{ID: uuid.New(), Kind: model.ShapePolyline, Points: slices.Clone(points)}
	r.apply(shape)

	r.mu.Lock()
	r.shapes[shape.ID] = shape
	r.order = append(r.order, shape.ID)
	r.mu.Unlock()

	r.log.Debug("path created",
		zap.Stringer("id", shape.ID),
		zap.Int("points", len(points)),
		zap.Int("annotations", len(shape.Annotations)))
	return cloneShape(shape), nil
}

// Edit 替换图形的坐标，并整体重新计算
func (r *Registry) Edit(id uuid.UUID, points []model.Point) (model.Shape, error) {
	if len(points) == 0 {
		return model.Shape{}, ErrEmptyGeometry
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	shape, ok := r.shapes[id]
	if !ok {
		return model.Shape{}, ErrShapeNotFound
	}
	if shape.Kind == model.ShapeMarker && len(points) != 1 {
		return model.Shape{}, ErrMarkerGeometry
	}

	shape.Points = slices.Clone(points)
	shape.Revision++
	r.apply(shape)

	r.log.Debug("shape edited", zap.Stringer("id", id), zap.Int("revision", shape.Revision))
	return cloneShape(shape), nil
}

// Delete 删除图形
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shapes[id]; !ok {
		return ErrShapeNotFound
	}
	delete(r.shapes, id)
	r.order = slices.DeleteFunc(r.order, func(v uuid.UUID) bool { return v == id })

	r.log.Debug("shape deleted", zap.Stringer("id", id))
	return nil
}

// Get 查询图形
func (r *Registry) Get(id uuid.UUID) (model.Shape, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shape, ok := r.shapes[id]
	if !ok {
		return model.Shape{}, ErrShapeNotFound
	}
	return cloneShape(shape), nil
}

// List 按创建顺序列出所有图形
func (r *Registry) List() []model.Shape {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shapes := make([]model.Shape, 0, len(r.order))
	for _, id := range r.order {
		shapes = append(shapes, cloneShape(r.shapes[id]))
	}
	return shapes
}

// Len 图形数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shapes)
}

// Refresh 用当前速度重新计算所有路径的标注，返回刷新的路径数
func (r *Registry) Refresh() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, id := range r.order {
		shape := r.shapes[id]
		if shape.Kind != model.ShapePolyline {
			continue
		}
		r.apply(shape)
		n++
	}
	r.log.Debug("paths refreshed", zap.Int("count", n), zap.Float64("speed", r.speed.Get()))
	return n
}

// apply 根据图形类型重新计算派生数据
func (r *Registry) apply(shape *model.Shape) {
	shape.UpdatedAt = r.now()
	switch shape.Kind {
	case model.ShapeMarker:
		p := shape.Points[0]
		grid := ToGridIndex(p, r.grid)
		shape.Grid = &grid
		shape.Label = MarkerLabel(p, r.grid)
	case model.ShapePolyline:
		speed := r.speed.Get()
		shape.Speed = speed
		shape.Annotations = Annotate(shape.Points, r.grid, speed)
		summary := Summarize(shape.Annotations)
		shape.Summary = &summary
	}
}

func cloneShape(s *model.Shape) model.Shape {
	c := *s
	c.Points = slices.Clone(s.Points)
	c.Annotations = slices.Clone(s.Annotations)
	if s.Grid != nil {
		grid := *s.Grid
		c.Grid = &grid
	}
	if s.Summary != nil {
		summary := *s.Summary
		c.Summary = &summary
	}
	return c
}
