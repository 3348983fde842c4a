package algo

import (
	"strconv"

	"nav-overlay/model"
	"nav-overlay/utils"
)

// MeasureSegment 计算一个路径段的方位、距离和时间
func MeasureSegment(start, end model.Point, cfg model.GridConfig, speed float64) model.SegmentMetrics {
	distance := ToRealDistance(Distance(start, end), cfg)
	seconds := TravelTime(distance, speed)
	return model.SegmentMetrics{
		Heading:    Heading(start, end),
		DistanceKm: distance,
		Seconds:    seconds,
		Time:       FormatTravelTime(seconds),
	}
}

// SegmentLabel 路径段标签: "<heading>°|<distance>km.|<m:ss>"
func SegmentLabel(m model.SegmentMetrics) string {
	heading := int(utils.Round(m.Heading, 0))
	return strconv.Itoa(heading) + "°|" + utils.FormatFixed(m.DistanceKm, 1) + "km.|" + m.Time
}

// Annotate 为一条路径生成全部标注
//
// 除第一个点以外，每个顶点都有一个圆点；除最后一个点以外，每个顶点都有一个
// 指向下一个点的路段标签。输出按顶点顺序排列，同一顶点先圆点后标签。
// 无状态：路径编辑后重新调用即可整体替换之前的结果。
func Annotate(path []model.Point, cfg model.GridConfig, speed float64) []model.Annotation {
	if len(path) < 2 {
		return []model.Annotation{}
	}

	annotations := make([]model.Annotation, 0, 2*(len(path)-1))
	for i, p := range path {
		if i > 0 {
			annotations = append(annotations, model.Annotation{
				Kind:   model.KindWaypoint,
				Anchor: p,
				Radius: model.WaypointRadius,
			})
		}

		if i < len(path)-1 {
			metrics := MeasureSegment(p, path[i+1], cfg, speed)
			annotations = append(annotations, model.Annotation{
				Kind:    model.KindSegment,
				Anchor:  p,
				Label:   SegmentLabel(metrics),
				Segment: &metrics,
				Width:   model.LabelWidth,
			})
		}
	}
	return annotations
}

// Summarize 汇总一组标注里的路段数据
func Summarize(annotations []model.Annotation) model.PathSummary {
	var s model.PathSummary
	for _, a := range annotations {
		if a.Segment == nil {
			continue
		}
		s.Segments++
		s.DistanceKm += a.Segment.DistanceKm
		s.Seconds += a.Segment.Seconds
	}
	s.Seconds = clampSeconds(s.Seconds)
	s.Time = FormatTravelTime(s.Seconds)
	return s
}
