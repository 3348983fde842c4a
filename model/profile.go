package model

import "gorm.io/gorm"

// MapProfile 一张地图的配置 (图片、边界、网格、默认速度)
type MapProfile struct {
	gorm.Model
	Name         string     `json:"name" gorm:"uniqueIndex;not null"`
	ImageFile    string     `json:"image_file"`
	DefaultSpeed float64    `json:"default_speed"`
	Grid         GridConfig `json:"grid" gorm:"embedded;embeddedPrefix:grid_"`
}

// MapProfileData 用于解析 map_profiles.json
type MapProfileData struct {
	Meta     map[string]interface{} `json:"meta"`
	Profiles []MapProfile           `json:"profiles"`
}
