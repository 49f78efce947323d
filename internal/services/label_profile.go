package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harborline/cargomark-backend/internal/platform/logger"
)

// LabelProfile carries operational print/reporting knobs that ops teams tune
// per deployment without a rebuild.
type LabelProfile struct {
	MaxBatchListLimit  int `yaml:"max_batch_list_limit"`
	FailedCodesLimit   int `yaml:"failed_codes_limit"`
	RecentBatchesLimit int `yaml:"recent_batches_limit"`
	// MaxBatchQuantity of zero leaves batch size uncapped; any positive
	// quantity is accepted until an operator sets a ceiling.
	MaxBatchQuantity int `yaml:"max_batch_quantity"`
}

func DefaultLabelProfile() LabelProfile {
	return LabelProfile{
		MaxBatchListLimit:  50,
		FailedCodesLimit:   200,
		RecentBatchesLimit: 5,
	}
}

// LoadLabelProfile reads the YAML profile at LABEL_PROFILE_PATH, falling back
// to defaults when unset or unreadable fields are zero.
func LoadLabelProfile(log *logger.Logger) LabelProfile {
	profile := DefaultLabelProfile()
	path := strings.TrimSpace(os.Getenv("LABEL_PROFILE_PATH"))
	if path == "" {
		return profile
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if log != nil {
			log.Warn("label profile unreadable, using defaults", "path", path, "error", err)
		}
		return profile
	}
	var loaded LabelProfile
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		if log != nil {
			log.Warn("label profile parse failed, using defaults", "path", path, "error", err)
		}
		return profile
	}
	if loaded.MaxBatchListLimit > 0 {
		profile.MaxBatchListLimit = loaded.MaxBatchListLimit
	}
	if loaded.FailedCodesLimit > 0 {
		profile.FailedCodesLimit = loaded.FailedCodesLimit
	}
	if loaded.RecentBatchesLimit > 0 {
		profile.RecentBatchesLimit = loaded.RecentBatchesLimit
	}
	if loaded.MaxBatchQuantity > 0 {
		profile.MaxBatchQuantity = loaded.MaxBatchQuantity
	}
	if log != nil {
		log.Info("label profile loaded", "path", path, "profile", fmt.Sprintf("%+v", profile))
	}
	return profile
}
