package holiday

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedData(t *testing.T) {
	data, err := EmbeddedData()
	require.NoError(t, err)

	assert.Equal(t, "CN", data.Region)
	assert.Equal(t, []int{2024, 2025, 2026}, data.SortedYears())
	for _, y := range data.SortedYears() {
		assert.NotEmpty(t, data.Years[y].Holidays, "year %d has no holidays", y)
		for _, r := range data.Years[y].Holidays {
			assert.Equal(t, y, r.From.Year(), "holiday %q starts outside its year", r.Name)
		}
	}
}

func TestParseDataErrors(t *testing.T) {
	_, err := ParseData([]byte("region: CN\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no years")

	_, err = ParseData([]byte(`
years:
  2030:
    holidays:
      - {name: x, from: 2030-13-01, to: 2030-13-02}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")

	_, err = ParseData([]byte("years: ["))
	require.Error(t, err)
}

func TestDataMerge(t *testing.T) {
	base := Data{Region: "CN", Years: map[int]Year{
		2025: {Holidays: []Range{{Name: "base-2025"}}},
		2026: {Holidays: []Range{{Name: "base-2026"}}},
	}}
	override := Data{Years: map[int]Year{
		2026: {Holidays: []Range{{Name: "remote-2026"}}},
		2027: {Holidays: []Range{{Name: "remote-2027"}}},
	}}

	merged := base.Merge(override)

	assert.Equal(t, "CN", merged.Region)
	assert.Equal(t, []int{2025, 2026, 2027}, merged.SortedYears())
	assert.Equal(t, "base-2025", merged.Years[2025].Holidays[0].Name)
	assert.Equal(t, "remote-2026", merged.Years[2026].Holidays[0].Name)
	assert.Equal(t, "base-2026", base.Years[2026].Holidays[0].Name, "merge must not mutate the receiver")
}

func TestDateYAMLRoundTrip(t *testing.T) {
	var m MakeUp
	require.NoError(t, yaml.Unmarshal([]byte("{date: 2026-10-10, name: swap}"), &m))
	assert.Equal(t, "2026-10-10", m.Date.String())

	out, err := yaml.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(out), "2026-10-10")
}
