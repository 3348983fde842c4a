package model

// AnnotationKind 标注类型
type AnnotationKind string

const (
	KindWaypoint AnnotationKind = "waypoint" // 途经点圆点
	KindSegment  AnnotationKind = "segment"  // 路径段文字标签
)

// 标注的固定尺寸
const (
	WaypointRadius = 2   // 圆点半径 (像素)
	LabelWidth     = 100 // 标签框宽度 (像素)
)

// SegmentMetrics 路径段的导航数据，每次路径变化都重新计算，不缓存
type SegmentMetrics struct {
	Heading    float64 `json:"heading"`     // 罗盘方位角 [0, 360)
	DistanceKm float64 `json:"distance_km"` // 真实距离 (公里)
	Seconds    float64 `json:"seconds"`     // 预计时间 (秒)
	Time       string  `json:"time"`        // m:ss
}

// Annotation 一个渲染用的标注 (圆点或标签)
// 服务端只负责计算，前端负责绘制
type Annotation struct {
	Kind    AnnotationKind  `json:"kind"`
	Anchor  Point           `json:"anchor"`
	Label   string          `json:"label,omitempty"`
	Segment *SegmentMetrics `json:"segment,omitempty"`
	Radius  int             `json:"radius,omitempty"`
	Width   int             `json:"width,omitempty"`
}
