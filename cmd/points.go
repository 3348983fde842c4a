package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"nav-overlay/model"
)

// parsePoint 解析 "lat,lng" 格式的坐标
func parsePoint(s string) (model.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return model.Point{}, fmt.Errorf("坐标格式应为 lat,lng: %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.Point{}, fmt.Errorf("无效的 lat %q: %w", parts[0], err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.Point{}, fmt.Errorf("无效的 lng %q: %w", parts[1], err)
	}
	return model.Point{Lat: lat, Lng: lng}, nil
}

func parsePoints(args []string) ([]model.Point, error) {
	points := make([]model.Point, 0, len(args))
	for _, arg := range args {
		p, err := parsePoint(arg)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}
