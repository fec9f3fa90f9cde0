package etwork

import (
	"strings"
)

// ParseLocation 从自由文本地址解析 "City - UF" / "City, UF" 模式
// 例如 "Sorriso - MT"、"Lucas do Rio Verde, MT"
// 解析失败返回 ok=false，工单将无法在地理维度命中覆盖范围
func ParseLocation(text string) (GeoPoint, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return GeoPoint{}, false
	}

	// 依次尝试两种分隔符，取最后一个分隔符右侧作为行政区代码
	// （城市名本身可能包含逗号前缀的地址片段）
	for _, sep := range []string{" - ", ","} {
		idx := strings.LastIndex(text, sep)
		if idx < 0 {
			continue
		}

		city := strings.TrimSpace(text[:idx])
		region := strings.TrimSpace(text[idx+len(sep):])

		if city == "" || !looksLikeRegionCode(region) {
			continue
		}

		return GeoPoint{City: city, RegionCode: strings.ToUpper(region)}, true
	}

	return GeoPoint{}, false
}

// looksLikeRegionCode 判断片段是否像行政区代码（两位字母）
func looksLikeRegionCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
