package utils

import (
	"math"
	"strconv"
)

// RadiansToDegrees 弧度转角度
func RadiansToDegrees(r float64) float64 {
	return r * 180.0 / math.Pi
}

// Round 四舍五入到指定小数位 (0.5 远离零进位，和前端 toFixed 一致)
func Round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// FormatFixed 固定小数位输出，例如 FormatFixed(3.14159, 1) == "3.1"
func FormatFixed(v float64, digits int) string {
	r := Round(v, digits)
	if r == 0 {
		r = 0 // 去掉 -0
	}
	return strconv.FormatFloat(r, 'f', digits, 64)
}

// FormatCoord 坐标输出，保留最多 6 位小数，去掉末尾的 0
func FormatCoord(v float64) string {
	r := Round(v, 6)
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
