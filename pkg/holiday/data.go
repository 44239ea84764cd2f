package holiday

import (
	_ "embed"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

//go:embed data/cn.yaml
var embeddedRaw []byte

// Date is a civil date written as YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse(dateLayout, value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid date %q (want YYYY-MM-DD)", value.Line, value.Value)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalYAML() (interface{}, error) {
	return d.Format(dateLayout), nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Range is an inclusive run of days off.
type Range struct {
	Name string `yaml:"name"`
	From Date   `yaml:"from"`
	To   Date   `yaml:"to"`
}

// MakeUp is a weekend day worked in exchange for a holiday.
type MakeUp struct {
	Date Date   `yaml:"date"`
	Name string `yaml:"name"`
}

type Year struct {
	Holidays []Range  `yaml:"holidays"`
	Workdays []MakeUp `yaml:"workdays"`
}

// Data is the on-disk calendar format, one entry per covered year.
type Data struct {
	Region string       `yaml:"region"`
	Years  map[int]Year `yaml:"years"`
}

// ParseData decodes calendar YAML.
func ParseData(raw []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("decoding holiday data: %w", err)
	}
	if len(d.Years) == 0 {
		return Data{}, fmt.Errorf("decoding holiday data: no years defined")
	}
	return d, nil
}

// EmbeddedData returns the calendar compiled into the binary.
func EmbeddedData() (Data, error) {
	return ParseData(embeddedRaw)
}

// Merge returns d with every year defined in other replaced by other's entry.
func (d Data) Merge(other Data) Data {
	out := Data{Region: d.Region, Years: make(map[int]Year, len(d.Years)+len(other.Years))}
	if other.Region != "" {
		out.Region = other.Region
	}
	for y, v := range d.Years {
		out.Years[y] = v
	}
	for y, v := range other.Years {
		out.Years[y] = v
	}
	return out
}

// SortedYears lists the covered years in ascending order.
func (d Data) SortedYears() []int {
	years := make([]int, 0, len(d.Years))
	for y := range d.Years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
