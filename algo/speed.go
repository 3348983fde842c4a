package algo

import (
	"errors"
	"math"
	"sync/atomic"
)

// DefaultSpeed 默认速度 (公里/小时)
const DefaultSpeed = 300.0

var ErrInvalidSpeed = errors.New("速度必须为正数")

// Speed 全局速度设置，可在运行时修改
// 修改后不会自动刷新已有标注，需要重新调用 Annotate
type Speed struct {
	bits atomic.Uint64
}

// NewSpeed 创建速度设置，v 无效时使用 DefaultSpeed
func NewSpeed(v float64) *Speed {
	s := &Speed{}
	if ValidateSpeed(v) != nil {
		v = DefaultSpeed
	}
	s.bits.Store(math.Float64bits(v))
	return s
}

// Get 当前速度
func (s *Speed) Get() float64 {
	return math.Float64frombits(s.bits.Load())
}

// Set 修改速度
func (s *Speed) Set(v float64) error {
	if err := ValidateSpeed(v); err != nil {
		return err
	}
	s.bits.Store(math.Float64bits(v))
	return nil
}

func ValidateSpeed(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return ErrInvalidSpeed
	}
	return nil
}
