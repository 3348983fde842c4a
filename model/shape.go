package model

import (
	"time"

	"github.com/google/uuid"
)

// ShapeKind 用户在地图上画的图形类型
type ShapeKind string

const (
	ShapeMarker   ShapeKind = "marker"
	ShapePolyline ShapeKind = "polyline"
)

// PathSummary 整条路径的汇总
type PathSummary struct {
	Segments   int     `json:"segments"`
	DistanceKm float64 `json:"distance_km"`
	Seconds    float64 `json:"seconds"`
	Time       string  `json:"time"`
}

// Shape 一个已绘制的图形及其计算结果
// 每次编辑都整体重新计算 Label / Annotations，不做增量更新
type Shape struct {
	ID          uuid.UUID    `json:"id"`
	Kind        ShapeKind    `json:"kind"`
	Points      []Point      `json:"points"`
	Label       string       `json:"label,omitempty"` // 仅 marker
	Grid        *int         `json:"grid,omitempty"`  // 仅 marker
	Annotations []Annotation `json:"annotations,omitempty"`
	Summary     *PathSummary `json:"summary,omitempty"`
	Speed       float64      `json:"speed,omitempty"` // 计算标注时使用的速度
	Revision    int          `json:"revision"`        // 0 为新建，每次编辑 +1
	UpdatedAt   time.Time    `json:"updated_at"`
}
