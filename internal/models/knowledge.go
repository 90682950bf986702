package models

// CropInfo describes a crop in the farming knowledge table
type CropInfo struct {
	Season           string `json:"season" yaml:"season"`
	WaterRequirement string `json:"water_requirement" yaml:"water_requirement"`
}

// SeasonInfo describes an Indian cropping season
type SeasonInfo struct {
	Months string   `json:"months" yaml:"months"`
	Crops  []string `json:"crops" yaml:"crops"`
}

// KnowledgeBase is the read-only farming table used when generation fails
type KnowledgeBase struct {
	Crops   map[string]CropInfo   `json:"crops" yaml:"crops"`
	Seasons map[string]SeasonInfo `json:"seasons" yaml:"seasons"`
}
