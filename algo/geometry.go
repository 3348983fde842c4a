package algo

import (
	"fmt"
	"math"
	"strconv"

	"nav-overlay/model"
	"nav-overlay/utils"
)

// Distance 两点之间的欧氏距离 (坐标单位)
func Distance(start, end model.Point) float64 {
	return math.Hypot(end.Lng-start.Lng, end.Lat-start.Lat)
}

// ToRealDistance 坐标距离换算为真实距离 (公里)
func ToRealDistance(coordDistance float64, cfg model.GridConfig) float64 {
	return coordDistance / cfg.SideLength() * cfg.CellRealLength
}

// mathToCompass 数学角度 (0° 正东，逆时针) 转罗盘方位角 (0° 正北，顺时针)
func mathToCompass(degrees float64) float64 {
	if degrees < 0 {
		degrees += 360
	}
	return math.Mod(450-degrees, 360)
}

// Heading 从 start 指向 end 的罗盘方位角，范围 [0, 360)
//
// start == end 时 atan2(0, 0) 为 0，即数学角度 0° (正东)，
// 换算后得到 90°。零长度路段是合法输入，这里不做特殊处理。
func Heading(start, end model.Point) float64 {
	radians := math.Atan2(end.Lat-start.Lat, end.Lng-start.Lng)
	return mathToCompass(utils.RadiansToDegrees(radians))
}

// TravelTime 按速度 (单位/小时) 计算所需秒数，四舍五入到整秒
//
// 结果保持为 float64，不经过 time.Duration (约 292 年封顶)。
// 速度极小时结果可能溢出为 +Inf，此时截断为 math.MaxFloat64。
func TravelTime(realDistance, speed float64) float64 {
	hours := realDistance / speed
	return clampSeconds(math.Round(hours * 3600))
}

// FormatTravelTime 把秒数格式化为 m:ss
// 分钟不进位为小时，秒数先取整再拆分，取 60 的余数并补齐两位
func FormatTravelTime(seconds float64) string {
	total := math.Round(clampSeconds(seconds))
	minutes := math.Floor(total / 60)
	rest := int(math.Mod(total, 60))
	return strconv.FormatFloat(minutes, 'f', 0, 64) + fmt.Sprintf(":%02d", rest)
}

func clampSeconds(s float64) float64 {
	switch {
	case math.IsNaN(s), s < 0:
		return 0
	case math.IsInf(s, 1):
		return math.MaxFloat64
	}
	return s
}
