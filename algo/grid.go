package algo

import (
	"math"
	"strconv"

	"nav-overlay/model"
	"nav-overlay/utils"
)

// rowBase 计算某一行之前所有格子的编号总数
// 可寻址区域不是规则矩形，每往下一行需要多占 RowPadding 个编号
func rowBase(lat float64, cfg model.GridConfig, side float64) float64 {
	invertedLat := cfg.MaxLat - lat // 行号从地图顶部向下数
	row := math.Floor(invertedLat / side)
	return row*float64(cfg.GridsWide) + row*float64(cfg.RowPadding)
}

// ToGridIndex 把地图坐标转换为一维格子编号
// 不校验也不裁剪越界坐标，越界点会得到越界 (可能为负) 的编号，由调用方判断。
// 编号在 float64 中计算，超出 int 范围时截断到 math.MinInt / math.MaxInt。
func ToGridIndex(p model.Point, cfg model.GridConfig) int {
	side := cfg.SideLength()
	col := math.Floor(p.Lng / side)
	return saturateInt(rowBase(p.Lat, cfg, side) + col + float64(cfg.GridOffset))
}

// saturateInt float64 转 int，超出范围时取边界值，NaN 视为 0
func saturateInt(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt:
		return math.MaxInt
	case v <= math.MinInt:
		return math.MinInt
	}
	return int(v)
}

// MarkerLabel 生成标记点的显示文字: "<lat>, <lng>, grid <index>"
func MarkerLabel(p model.Point, cfg model.GridConfig) string {
	return utils.FormatCoord(p.Lat) + ", " + utils.FormatCoord(p.Lng) +
		", grid " + strconv.Itoa(ToGridIndex(p, cfg))
}
