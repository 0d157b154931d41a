package matchapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMatchingConfigAppliesOverridesOverDefaults(t *testing.T) {
	cfg, err := LoadMatchingConfig(strings.NewReader(`
weight_md5_jaccard: 0.7
max_candidates: 10
`))
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.WeightMD5Jaccard)
	assert.Equal(t, 10, cfg.MaxCandidates)
	assert.Equal(t, DefaultMatchingConfig().WeightOrder, cfg.WeightOrder)
}

func TestLoadMatchingConfigEmptyFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadMatchingConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultMatchingConfig(), cfg)
}

func TestLoadMatchingConfigRejectsInvalidWeights(t *testing.T) {
	_, err := LoadMatchingConfig(strings.NewReader(`
weight_md5_jaccard: -1
`))
	require.Error(t, err)
	var cfgErr *ConfigInvalidError
	assert.ErrorAs(t, err, &cfgErr)
}
