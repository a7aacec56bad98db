package types

import "time"

// DatasetStats summarizes the loaded survey dataset.
type DatasetStats struct {
	Source          string    `json:"source"`
	TotalRecords    int       `json:"total_records"`
	Genders         int       `json:"genders"`
	Cities          int       `json:"cities"`
	AgeMin          int       `json:"age_min"`
	AgeMax          int       `json:"age_max"`
	DepressionCases int       `json:"depression_cases"`
	LoadedAt        time.Time `json:"loaded_at"`
}
