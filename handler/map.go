package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nav-overlay/algo"
	"nav-overlay/db"
	"nav-overlay/metrics"
	"nav-overlay/model"
)

// PointRequest 坐标点 (使用指针区分 0 和未传)
type PointRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

func (p PointRequest) toPoint() model.Point {
	return model.Point{Lat: *p.Lat, Lng: *p.Lng}
}

// PathRequest 路径请求，坐标按绘制顺序排列
type PathRequest struct {
	Points []PointRequest `json:"points" binding:"required,min=1,dive"`
}

func (r PathRequest) toPoints() []model.Point {
	points := make([]model.Point, len(r.Points))
	for i, p := range r.Points {
		points[i] = p.toPoint()
	}
	return points
}

// AnnotateRequest 无状态标注请求，Speed 为空时使用当前速度
type AnnotateRequest struct {
	Points []PointRequest `json:"points" binding:"required,dive"`
	Speed  float64        `json:"speed,omitempty" binding:"omitempty,gt=0"`
}

// SpeedRequest 修改速度
type SpeedRequest struct {
	Speed   float64 `json:"speed" binding:"required,gt=0"`
	Refresh bool    `json:"refresh"` // 是否立即刷新已有路径的标注
}

// GridResponse 格子查询结果
type GridResponse struct {
	Point    model.Point `json:"point"`
	Grid     int         `json:"grid"`
	Label    string      `json:"label"`
	InBounds bool        `json:"in_bounds"`
}

// AnnotateResponse 标注结果
type AnnotateResponse struct {
	Annotations []model.Annotation `json:"annotations"`
	Summary     model.PathSummary  `json:"summary"`
	Speed       float64            `json:"speed"`
}

// MapResponse 当前地图信息
type MapResponse struct {
	Profile    model.MapProfile `json:"profile"`
	SideLength float64          `json:"side_length"`
	Speed      float64          `json:"speed"`
}

// MapHandler 地图相关接口: 标记点、路径标注、速度设置
type MapHandler struct {
	registry *algo.Registry
	profile  model.MapProfile
	profiles db.ProfileStore
	log      *zap.Logger
}

// NewMapHandler 创建地图接口
func NewMapHandler(registry *algo.Registry, profile model.MapProfile, profiles db.ProfileStore, log *zap.Logger) *MapHandler {
	if log == nil {
		log = zap.NewNop()
	}
	metrics.TravelSpeed.Set(registry.Speed().Get())
	return &MapHandler{registry: registry, profile: profile, profiles: profiles, log: log}
}

// RegisterRoutes 注册路由，修改速度需要登录
func (h *MapHandler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	api.GET("/map", h.GetMap)
	api.GET("/profiles", h.ListProfiles)

	api.POST("/grid", h.LookupGrid)
	api.POST("/annotate", h.Annotate)

	api.POST("/markers", h.CreateMarker)
	api.POST("/paths", h.CreatePath)
	api.GET("/shapes", h.ListShapes)
	api.GET("/shapes/:id", h.GetShape)
	api.PUT("/shapes/:id", h.EditShape)
	api.DELETE("/shapes/:id", h.DeleteShape)

	api.GET("/speed", h.GetSpeed)
	api.PUT("/speed", auth, h.SetSpeed)
}

// GetMap 获取当前地图配置
func (h *MapHandler) GetMap(c *gin.Context) {
	c.JSON(http.StatusOK, MapResponse{
		Profile:    h.profile,
		SideLength: h.profile.Grid.SideLength(),
		Speed:      h.registry.Speed().Get(),
	})
}

// ListProfiles 获取所有地图配置
func (h *MapHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		h.log.Error("查询地图配置失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询地图配置失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active":   h.profile.Name,
		"count":    len(profiles),
		"profiles": profiles,
	})
}

// LookupGrid 查询坐标对应的格子编号，不登记图形
func (h *MapHandler) LookupGrid(c *gin.Context) {
	var req PointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	p := req.toPoint()
	grid := h.registry.Grid()
	inBounds := grid.Contains(p)
	recordGridLookup(inBounds)

	c.JSON(http.StatusOK, GridResponse{
		Point:    p,
		Grid:     algo.ToGridIndex(p, grid),
		Label:    algo.MarkerLabel(p, grid),
		InBounds: inBounds,
	})
}

// Annotate 计算一条路径的标注，不登记图形
func (h *MapHandler) Annotate(c *gin.Context) {
	var req AnnotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	speed := req.Speed
	if speed == 0 {
		speed = h.registry.Speed().Get()
	}
	points := make([]model.Point, len(req.Points))
	for i, p := range req.Points {
		points[i] = p.toPoint()
	}

	annotations := algo.Annotate(points, h.registry.Grid(), speed)
	metrics.RecordAnnotations(annotations)

	c.JSON(http.StatusOK, AnnotateResponse{
		Annotations: annotations,
		Summary:     algo.Summarize(annotations),
		Speed:       speed,
	})
}

// CreateMarker 新建标记点
func (h *MapHandler) CreateMarker(c *gin.Context) {
	var req PointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	p := req.toPoint()
	recordGridLookup(h.registry.Grid().Contains(p))

	shape := h.registry.CreateMarker(p)
	metrics.RecordShape(shape.Kind, "created")
	metrics.ActiveShapes.Set(float64(h.registry.Len()))

	c.JSON(http.StatusCreated, shape)
}

// CreatePath 新建路径
func (h *MapHandler) CreatePath(c *gin.Context) {
	var req PathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	shape, err := h.registry.CreatePath(req.toPoints())
	if err != nil {
		h.writeError(c, err)
		return
	}
	metrics.RecordShape(shape.Kind, "created")
	metrics.RecordAnnotations(shape.Annotations)
	metrics.ActiveShapes.Set(float64(h.registry.Len()))

	c.JSON(http.StatusCreated, shape)
}

// ListShapes 按创建顺序列出所有图形
func (h *MapHandler) ListShapes(c *gin.Context) {
	shapes := h.registry.List()
	c.JSON(http.StatusOK, gin.H{
		"count":  len(shapes),
		"shapes": shapes,
	})
}

// GetShape 查询图形
func (h *MapHandler) GetShape(c *gin.Context) {
	id, ok := parseShapeID(c)
	if !ok {
		return
	}
	shape, err := h.registry.Get(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, shape)
}

// EditShape 编辑图形，全部标注重新生成
func (h *MapHandler) EditShape(c *gin.Context) {
	id, ok := parseShapeID(c)
	if !ok {
		return
	}

	var req PathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	shape, err := h.registry.Edit(id, req.toPoints())
	if err != nil {
		h.writeError(c, err)
		return
	}
	metrics.RecordShape(shape.Kind, "edited")
	metrics.RecordAnnotations(shape.Annotations)

	c.JSON(http.StatusOK, shape)
}

// DeleteShape 删除图形
func (h *MapHandler) DeleteShape(c *gin.Context) {
	id, ok := parseShapeID(c)
	if !ok {
		return
	}
	shape, err := h.registry.Get(id)
	if err == nil {
		err = h.registry.Delete(id)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	metrics.RecordShape(shape.Kind, "deleted")
	metrics.ActiveShapes.Set(float64(h.registry.Len()))

	c.JSON(http.StatusOK, gin.H{"message": "删除成功", "id": id})
}

// GetSpeed 当前速度
func (h *MapHandler) GetSpeed(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"speed": h.registry.Speed().Get()})
}

// SetSpeed 修改速度
// 已有路径的标注不会自动更新，除非 refresh 为 true
func (h *MapHandler) SetSpeed(c *gin.Context) {
	var req SpeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	if err := h.registry.Speed().Set(req.Speed); err != nil {
		h.writeError(c, err)
		return
	}
	metrics.TravelSpeed.Set(req.Speed)

	refreshed := 0
	if req.Refresh {
		refreshed = h.registry.Refresh()
	}
	h.log.Info("速度已修改",
		zap.Float64("speed", req.Speed),
		zap.Int("refreshed", refreshed),
		zap.String("username", c.GetString("username")))

	c.JSON(http.StatusOK, gin.H{
		"speed":     req.Speed,
		"refreshed": refreshed,
	})
}

func parseShapeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的图形 ID"})
		return uuid.Nil, false
	}
	return id, true
}

func recordGridLookup(inBounds bool) {
	metrics.GridLookups.Inc()
	if !inBounds {
		metrics.OutOfBoundsLookups.Inc()
	}
}

// writeError 把领域错误转换为 HTTP 状态码
func (h *MapHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, algo.ErrShapeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, algo.ErrEmptyGeometry),
		errors.Is(err, algo.ErrMarkerGeometry),
		errors.Is(err, algo.ErrInvalidSpeed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("请求处理失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
	}
}
