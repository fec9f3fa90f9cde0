package etcoverage

import (
	"errors"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"flp/matchd/internal/app/domains/entity/etwork"
)

// 错误定义
var (
	ErrInvalidProviderID = errors.New("provider ID cannot be empty")
)

// DefaultCategory 服务商未启用任何类别时的兜底类别
// 货运是平台的初始业务线，历史上未配置类别的服务商都是货运司机
const DefaultCategory = etwork.CategoryCargo

// Region 覆盖区域（城市, 行政区代码）
type Region struct {
	City       string
	RegionCode string
}

// Coverage 服务商覆盖范围快照（只读）
// 由外部配置子系统维护，本子系统按信号或定时刷新
type Coverage struct {
	ProviderID  string
	regionKeys  map[string]struct{}         // normalize(city)|normalize(uf) 集合
	regionCodes map[string]struct{}         // 覆盖范围中出现过的行政区代码集合
	cityNames   map[string]struct{}         // 覆盖范围中出现过的城市名集合
	categories  map[etwork.Category]struct{}
}

// NewCoverage 创建覆盖范围快照
func NewCoverage(providerID string, regions []Region, categories []etwork.Category) (*Coverage, error) {
	if providerID == "" {
		return nil, ErrInvalidProviderID
	}

	c := &Coverage{
		ProviderID:  providerID,
		regionKeys:  make(map[string]struct{}, len(regions)),
		regionCodes: make(map[string]struct{}),
		cityNames:   make(map[string]struct{}),
		categories:  make(map[etwork.Category]struct{}, len(categories)),
	}

	for _, r := range regions {
		city := Normalize(r.City)
		code := Normalize(r.RegionCode)
		if city == "" && code == "" {
			continue
		}
		c.regionKeys[RegionKey(r.City, r.RegionCode)] = struct{}{}
		if code != "" {
			c.regionCodes[code] = struct{}{}
		}
		if city != "" {
			c.cityNames[city] = struct{}{}
		}
	}

	for _, cat := range categories {
		if etwork.ValidCategory(cat) {
			c.categories[cat] = struct{}{}
		}
	}

	return c, nil
}

// HasRegionKey 判断 (城市, 行政区) 组合是否在覆盖范围内
func (c *Coverage) HasRegionKey(city, regionCode string) bool {
	_, ok := c.regionKeys[RegionKey(city, regionCode)]
	return ok
}

// HasRegionCode 判断行政区代码是否在覆盖范围内（忽略城市名）
func (c *Coverage) HasRegionCode(regionCode string) bool {
	_, ok := c.regionCodes[Normalize(regionCode)]
	return ok
}

// HasCityName 判断城市名是否在覆盖范围内（忽略行政区代码）
func (c *Coverage) HasCityName(city string) bool {
	_, ok := c.cityNames[Normalize(city)]
	return ok
}

// AcceptsCategory 判断类别是否在启用范围内
// 未启用任何类别时应用兜底类别，而不是静默返回空
func (c *Coverage) AcceptsCategory(cat etwork.Category) bool {
	if len(c.categories) == 0 {
		return cat == DefaultCategory
	}
	_, ok := c.categories[cat]
	return ok
}

// RegionCount 覆盖区域数量
func (c *Coverage) RegionCount() int {
	return len(c.regionKeys)
}

// EnabledCategories 启用类别列表（升序，保证确定性）
// 未启用任何类别时返回兜底类别
func (c *Coverage) EnabledCategories() []etwork.Category {
	if len(c.categories) == 0 {
		return []etwork.Category{DefaultCategory}
	}
	cats := make([]etwork.Category, 0, len(c.categories))
	for cat := range c.categories {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// RegionCodes 覆盖范围中出现过的行政区代码（升序，保证确定性）
// 用作工单查询的召回信封
func (c *Coverage) RegionCodes() []string {
	codes := make([]string, 0, len(c.regionCodes))
	for code := range c.regionCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// CityNames 覆盖范围中出现过的城市名（归一化、升序，保证确定性）
// 用作工单查询的召回信封
func (c *Coverage) CityNames() []string {
	names := make([]string, 0, len(c.cityNames))
	for name := range c.cityNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty 判断覆盖范围是否为空（无任何区域配置）
func (c *Coverage) Empty() bool {
	return len(c.regionKeys) == 0
}

// RegionKey 构造区域键: normalize(city)+"|"+normalize(uf)
func RegionKey(city, regionCode string) string {
	return Normalize(city) + "|" + Normalize(regionCode)
}

// 去除变音符号的转换器（NFD 分解后删除组合记号）
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize 归一化地名：小写、去首尾空白、压缩内部空白、去变音符号
// 源数据中 "São Paulo" 与 "sao paulo" 必须归一到同一个键
func Normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}

	return strings.Join(strings.Fields(s), " ")
}
