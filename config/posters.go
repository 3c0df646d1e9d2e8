package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"reddigram/enums"
	"reddigram/models"
)

// LoadPosters reads the per-channel policies from a yaml file. The result
// is an explicit list owned by the caller.
func LoadPosters(path string) ([]*models.Poster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed reading posters file: %w", err)
	}

	var posters []*models.Poster
	if err := yaml.Unmarshal(data, &posters); err != nil {
		return nil, fmt.Errorf("failed parsing posters file: %w", err)
	}

	for i, poster := range posters {
		if poster.Chat == 0 {
			return nil, fmt.Errorf("poster %d has no chat id", i)
		}
		if len(poster.Subreddits) == 0 {
			return nil, fmt.Errorf("poster %d has no subreddits", i)
		}
		if poster.Limit <= 0 {
			poster.Limit = 10
		}
		if !poster.SortBy.IsValid() {
			poster.SortBy = enums.SortModeHot
		}
	}
	return posters, nil
}
