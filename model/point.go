package model

import (
	"errors"
	"fmt"
	"math"
)

// Point 代表地图坐标系中的一个点
// 注意: 这里不是 WGS84 经纬度，而是地图图片上的抽象平面坐标
// Lat 向上增大，Lng 向右增大
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GridConfig 网格配置，描述地图边界和网格划分
type GridConfig struct {
	MinLat float64 `json:"min_lat" mapstructure:"min_lat"`
	MaxLat float64 `json:"max_lat" mapstructure:"max_lat"`
	MinLng float64 `json:"min_lng" mapstructure:"min_lng"`
	MaxLng float64 `json:"max_lng" mapstructure:"max_lng"`

	GridsWide  int `json:"grids_wide" mapstructure:"grids_wide"`   // 横向格子数
	GridsTall  int `json:"grids_tall" mapstructure:"grids_tall"`   // 纵向格子数
	GridOffset int `json:"grid_offset" mapstructure:"grid_offset"` // 编号偏移量
	RowPadding int `json:"row_padding" mapstructure:"row_padding"` // 每行额外占用的编号 (可寻址区域不是矩形)

	CellRealLength float64 `json:"cell_real_length" mapstructure:"cell_real_length"` // 一个格子对应的真实距离 (公里)
}

// 配置错误
var ErrInvalidGridConfig = errors.New("网格配置无效")

// SideLength 格子边长 (坐标单位)
// 横纵两个方向取平均值，把网格近似为正方形
func (c GridConfig) SideLength() float64 {
	rowSpan := (c.MaxLat - c.MinLat) / float64(c.GridsTall)
	colSpan := (c.MaxLng - c.MinLng) / float64(c.GridsWide)
	return (rowSpan + colSpan) / 2
}

// Validate 检查配置，启动时调用，出错应直接退出
func (c GridConfig) Validate() error {
	switch {
	case c.GridsWide <= 0:
		return fmt.Errorf("%w: grids_wide 必须大于 0, 当前 %d", ErrInvalidGridConfig, c.GridsWide)
	case c.GridsTall <= 0:
		return fmt.Errorf("%w: grids_tall 必须大于 0, 当前 %d", ErrInvalidGridConfig, c.GridsTall)
	case !(c.MaxLat > c.MinLat):
		return fmt.Errorf("%w: max_lat 必须大于 min_lat", ErrInvalidGridConfig)
	case !(c.MaxLng > c.MinLng):
		return fmt.Errorf("%w: max_lng 必须大于 min_lng", ErrInvalidGridConfig)
	case c.RowPadding < 0:
		return fmt.Errorf("%w: row_padding 不能为负数", ErrInvalidGridConfig)
	case !(c.CellRealLength > 0) || math.IsInf(c.CellRealLength, 0):
		return fmt.Errorf("%w: cell_real_length 必须为正数", ErrInvalidGridConfig)
	}
	if side := c.SideLength(); !(side > 0) || math.IsInf(side, 0) {
		return fmt.Errorf("%w: 格子边长无效 (%v)", ErrInvalidGridConfig, side)
	}
	return nil
}

// Contains 点是否在地图边界内 (含边界)
func (c GridConfig) Contains(p Point) bool {
	return p.Lat >= c.MinLat && p.Lat <= c.MaxLat &&
		p.Lng >= c.MinLng && p.Lng <= c.MaxLng
}
